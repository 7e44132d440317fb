package route

// XSLTRouteID is the id of the built-in route.
const XSLTRouteID = "xslt"

// ItemXML is the constant body the built-in route emits on every tick.
const ItemXML = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
	"<item>A</item>"

// XSLT returns the built-in route: every second, set the body to ItemXML,
// run it through xslt/cheese.xsl and log the result.
func XSLT() Definition {
	return From("timer:tick?period=1s").
		RouteID(XSLTRouteID).
		SetBody([]byte(ItemXML)).
		To("xslt:xslt/cheese.xsl").
		To("log:info").
		MustBuild()
}
