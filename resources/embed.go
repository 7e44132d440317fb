// Package resources embeds the stylesheets shipped with the relay binary.
package resources

import "embed"

// FS holds the built-in resources, addressed as "xslt/cheese.xsl".
//
//go:embed xslt/*.xsl
var FS embed.FS
