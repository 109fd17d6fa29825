package shell

import (
	"strings"
	"testing"

	"github.com/atomicstack/custom-menu/internal/ui/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(actions []action.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Text()
	}
	return out
}

func TestParseButtonsLabelsAndBreaks(t *testing.T) {
	out := strings.Join([]string{
		"title:Network",
		"text:Connected to home",
		"item: Rescan :rescan",
		"item:Forget:forget:home",
		"pagebreak:",
		"noise that is ignored",
		"item:Bad line without colon",
	}, "\n")

	var ran []string
	doc, err := Parse(strings.NewReader(out), func(arg string) { ran = append(ran, arg) })
	require.NoError(t, err)

	assert.Equal(t, "Network", doc.Title)
	require.Len(t, doc.Actions, 4)
	assert.Equal(t, []string{"Connected to home", "Rescan", "Forget", ""}, texts(doc.Actions))
	assert.True(t, action.Multiline(doc.Actions[0]))
	assert.True(t, action.IsPageBreak(doc.Actions[3]))

	doc.Actions[1].Select()
	doc.Actions[2].Select()
	assert.Equal(t, []string{"rescan", "forget:home"}, ran)
}

func TestParseRadioGroup(t *testing.T) {
	out := "item:Low:low\nitem:<Medium>:medium\nitem:High:high\ntext:after\n"
	var ran []string
	doc, err := Parse(strings.NewReader(out), func(arg string) { ran = append(ran, arg) })
	require.NoError(t, err)
	require.Len(t, doc.Actions, 4)

	radios := make([]*action.Radio, 3)
	for i := range radios {
		r, ok := doc.Actions[i].(*action.Radio)
		require.True(t, ok, "action %d is %T", i, doc.Actions[i])
		radios[i] = r
	}
	assert.True(t, radios[1].Checked())
	assert.Contains(t, radios[1].Text(), "Medium")

	radios[1].Select()
	assert.Empty(t, ran, "reselecting the checked radio should not rerun")
	radios[2].Select()
	assert.Equal(t, []string{"high"}, ran)
	assert.True(t, radios[2].Checked())
	assert.False(t, radios[1].Checked())
}

func TestParseSeparateGroups(t *testing.T) {
	out := "item:<A>:a\nitem:B:b\ntext:gap\nitem:C:c\n"
	doc, err := Parse(strings.NewReader(out), func(string) {})
	require.NoError(t, err)
	require.Len(t, doc.Actions, 4)
	_, isRadio := doc.Actions[3].(*action.Radio)
	assert.False(t, isRadio, "a group without brackets should be plain buttons")
}

func TestParseDuplicateRadioArgs(t *testing.T) {
	out := "item:<On>:x\nitem:Off:x\n"
	assert.NotPanics(t, func() {
		doc, err := Parse(strings.NewReader(out), func(string) {})
		require.NoError(t, err)
		assert.Len(t, doc.Actions, 2)
	})
}
