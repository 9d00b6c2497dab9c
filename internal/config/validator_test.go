package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validate(t *testing.T, checkText, value string) (interface{}, error) {
	t.Helper()
	check, err := ParseCheck(checkText)
	require.NoError(t, err)
	v, err := LoadValidator(check)
	require.NoError(t, err)
	return v.Validate(check, value)
}

func TestBooleanValidator(t *testing.T) {
	for _, truthy := range []string{"yes", "on", "true", "1", "TRUE"} {
		v, err := validate(t, "boolean()", truthy)
		require.NoError(t, err)
		assert.Equal(t, true, v)
	}
	for _, falsy := range []string{"no", "off", "false", "0"} {
		v, err := validate(t, "boolean()", falsy)
		require.NoError(t, err)
		assert.Equal(t, false, v)
	}
	_, err := validate(t, "boolean()", "maybe")
	assert.Error(t, err)
}

func TestIntegerValidatorBounds(t *testing.T) {
	v, err := validate(t, "integer(min=0, max=9)", "5")
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	_, err = validate(t, "integer(min=0, max=9)", "10")
	assert.Error(t, err)

	_, err = validate(t, "integer(min=0, max=9)", "-1")
	assert.Error(t, err)
}

func TestPercentValidator(t *testing.T) {
	v, err := validate(t, "percent()", "100%")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v.(float64), 1e-9)

	v, err = validate(t, "percent()", "3")
	require.NoError(t, err)
	assert.InDelta(t, 0.03, v.(float64), 1e-9)
}

func TestOptionValidator(t *testing.T) {
	v, err := validate(t, "option('tar', 'dircopy', 'rsync')", "tar")
	require.NoError(t, err)
	assert.Equal(t, "tar", v)

	_, err = validate(t, "option('tar', 'dircopy', 'rsync')", "zip")
	assert.Error(t, err)
}

func TestListValidatorSplitsOnCommasRespectingQuotes(t *testing.T) {
	v, err := validate(t, "force_list()", `a, "b, not split", c`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b, not split", "c"}, v)
}

func TestListValidatorEmptyValue(t *testing.T) {
	v, err := validate(t, "force_list()", "")
	require.NoError(t, err)
	assert.Equal(t, []string{}, v)
}

func TestSetValidatorDeduplicates(t *testing.T) {
	v, err := validate(t, "set()", "a,b,a")
	require.NoError(t, err)
	set := v.(map[string]struct{})
	assert.Len(t, set, 2)
}

func TestNameArgValidatorSplitsOnColon(t *testing.T) {
	v, err := validate(t, "namearg()", "plugin:extra-arg")
	require.NoError(t, err)
	na := v.(NameArg)
	assert.Equal(t, "plugin", na.Name)
	assert.Equal(t, "extra-arg", na.Arg)
}

func TestLogLevelValidatorAcceptsOnlyKnownNames(t *testing.T) {
	v, err := validate(t, "log_level()", "WARNING")
	require.NoError(t, err)
	assert.Equal(t, "warning", v)

	_, err = validate(t, "log_level()", "warn")
	assert.Error(t, err)

	_, err = validate(t, "log_level()", "critical")
	assert.Error(t, err)
}

func TestCmdlineValidatorSplitsShellWords(t *testing.T) {
	v, err := validate(t, "cmdline()", `mysqldump --opt "a b"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"mysqldump", "--opt", "a b"}, v)
}
