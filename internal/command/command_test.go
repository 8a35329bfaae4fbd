package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FillField(t *testing.T) {
	a, err := Parse("FILL_FIELD,textarea[name=\"q\"],hello world")
	require.NoError(t, err)
	assert.Equal(t, KindFillField, a.Kind)
	assert.Equal(t, `textarea[name="q"]`, a.Selector)
	assert.Equal(t, "hello world", a.Text)
}

func TestParse_FillField_TextContainingCommas(t *testing.T) {
	a, err := Parse("FILL_FIELD,#notes,hello, world, and more")
	require.NoError(t, err)
	assert.Equal(t, "hello, world, and more", a.Text)
}

func TestParse_ClickSelector(t *testing.T) {
	a, err := Parse("CLICK_SELECTOR,#chk-a")
	require.NoError(t, err)
	assert.Equal(t, KindClickSelector, a.Kind)
	assert.Equal(t, "#chk-a", a.Selector)
}

func TestParse_ClickOption(t *testing.T) {
	a, err := Parse("CLICK_OPTION,#q-1,Yes")
	require.NoError(t, err)
	assert.Equal(t, KindClickOption, a.Kind)
	assert.Equal(t, "#q-1", a.Container)
	assert.Equal(t, "Yes", a.Label)
}

func TestParse_Delay(t *testing.T) {
	a, err := Parse("DELAY,250")
	require.NoError(t, err)
	assert.Equal(t, KindDelay, a.Kind)
	assert.Equal(t, 250, a.DelayMS)
}

func TestParse_RawPassthrough(t *testing.T) {
	a, err := Parse("MOVE,10,-5")
	require.NoError(t, err)
	assert.Equal(t, KindRaw, a.Kind)
	assert.Equal(t, "MOVE,10,-5", a.Raw)
}

func TestParse_Errors(t *testing.T) {
	cases := []string{"", "FILL_FIELD", "CLICK_SELECTOR,", "CLICK_OPTION,#c", "DELAY", "DELAY,-5", "DELAY,abc"}
	for _, c := range cases {
		_, err := Parse(c)
		assert.Error(t, err, "expected error for %q", c)
	}
}

func TestParseList_StopsAtFirstError(t *testing.T) {
	_, err := ParseList([]string{"CLICK_SELECTOR,#a", "DELAY,abc", "CLICK_SELECTOR,#b"})
	require.Error(t, err)
}
