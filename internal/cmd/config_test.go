package cmd

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFormat(t *testing.T) {
	assert.Equal(t, "json", normalizeFormat("JSON"))
	assert.Equal(t, "yaml", normalizeFormat("yml"))
	assert.Equal(t, "toml", normalizeFormat("toml"))
	assert.Equal(t, "", normalizeFormat("ini"))
}

func TestLowerCamel(t *testing.T) {
	assert.Equal(t, "serialDevice", lowerCamel("SerialDevice"))
	assert.Equal(t, "", lowerCamel(""))
}

func TestBuildMapFromStructIncludesDefaultedFields(t *testing.T) {
	root := buildMapFromStruct(reflect.TypeOf(Serve{}))
	assert.Equal(t, "/dev/ttyUSB0", root["serialDevice"])
	assert.Equal(t, "flipmouse", root["deviceModel"])
	assert.Equal(t, "default", root["defaultSlot"])
}
