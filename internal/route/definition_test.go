package route_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/telhawk-relay/internal/route"
)

func TestBuilder_DefaultsIDToTimerName(t *testing.T) {
	def, err := route.From("timer:foo?period=10ms").To("log:info").Build()
	require.NoError(t, err)
	assert.Equal(t, "foo", def.ID)
	assert.Equal(t, "timer:foo?period=10ms", def.From)
	require.Len(t, def.Steps, 1)
	assert.Equal(t, route.StepTo, def.Steps[0].Kind)
}

func TestXSLT_Definition(t *testing.T) {
	def := route.XSLT()

	assert.Equal(t, route.XSLTRouteID, def.ID)
	assert.Equal(t, "timer:tick?period=1s", def.From)
	require.Len(t, def.Steps, 3)
	assert.Equal(t, route.StepSetBody, def.Steps[0].Kind)
	assert.Equal(t, []byte(route.ItemXML), def.Steps[0].Body)
	assert.Equal(t, route.ToStep("xslt:xslt/cheese.xsl"), def.Steps[1])
	assert.Equal(t, route.ToStep("log:info"), def.Steps[2])
}

func TestDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		def     route.Definition
		wantErr bool
	}{
		{
			name: "valid",
			def:  route.Definition{ID: "r", From: "timer:t", Steps: []route.Step{route.ToStep("log:info")}},
		},
		{
			name:    "missing id",
			def:     route.Definition{From: "timer:t", Steps: []route.Step{route.ToStep("log:info")}},
			wantErr: true,
		},
		{
			name:    "from not a timer",
			def:     route.Definition{ID: "r", From: "log:info", Steps: []route.Step{route.ToStep("log:info")}},
			wantErr: true,
		},
		{
			name:    "from unparseable",
			def:     route.Definition{ID: "r", From: "::", Steps: []route.Step{route.ToStep("log:info")}},
			wantErr: true,
		},
		{
			name:    "no steps",
			def:     route.Definition{ID: "r", From: "timer:t"},
			wantErr: true,
		},
		{
			name: "set_body with uri",
			def: route.Definition{ID: "r", From: "timer:t", Steps: []route.Step{
				{Kind: route.StepSetBody, Body: []byte("x"), URI: "log:info"},
			}},
			wantErr: true,
		},
		{
			name:    "to without uri",
			def:     route.Definition{ID: "r", From: "timer:t", Steps: []route.Step{{Kind: route.StepTo}}},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			def:     route.Definition{ID: "r", From: "timer:t", Steps: []route.Step{{Kind: "bogus"}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, route.ErrInvalidDefinition)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBuilder_MustBuildPanics(t *testing.T) {
	assert.Panics(t, func() {
		route.From("timer:t").MustBuild()
	})
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "setBody(constant, 3 bytes)", route.SetBodyStep([]byte("abc")).String())
	assert.Equal(t, "to(log:info)", route.ToStep("log:info").String())
}
