package casing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPascal(t *testing.T) {
	for input, expected := range map[string]string{
		"my-button":      "MyButton",
		"my_button":      "MyButton",
		"MyButton":       "MyButton",
		"myButton":       "MyButton",
		"my--button_":    "MyButton",
		"a-b-c":          "ABC",
		"":               "",
		"--":             "",
		"élan-vital":     "ÉlanVital",
		"user-api-token": "UserApiToken",
	} {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, expected, Pascal(input))
		})
	}
}

func TestKebab(t *testing.T) {
	for input, expected := range map[string]string{
		"MyComponent":    "my-component",
		"XMLParser":      "xml-parser",
		"MyButtonBar":    "my-button-bar",
		"API":            "api",
		"APIKey":         "api-key",
		"getHTTP2Server": "get-http2-server",
		"my-button":      "my-button",
		"COMPONENT_NAME": "component_name",
		"demo":           "demo",
		"":               "",
	} {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, expected, Kebab(input))
		})
	}
}

func TestSnake(t *testing.T) {
	for input, expected := range map[string]string{
		"my-service":   "my_service",
		"My-Service":   "my_service",
		"SERVICE_NAME": "service_name",
		"MyButton":     "mybutton",
		"":             "",
	} {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, expected, Snake(input))
		})
	}
}

func TestIdempotence(t *testing.T) {
	for _, input := range []string{"MyComponent", "XMLParser", "my-button", "APIKey", "Some_Mixed-Value", "x"} {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, Kebab(input), Kebab(Kebab(input)))
			assert.Equal(t, Snake(input), Snake(Snake(input)))
			assert.Equal(t, Pascal(input), Pascal(Pascal(input)))
		})
	}
}
