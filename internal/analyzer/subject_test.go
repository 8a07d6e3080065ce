package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSubject_AddressHasHighestPriority(t *testing.T) {
	// 同一段上下文中同時存在地址與主題關鍵字，地址優先
	context := "Discussion of the liquor license for the restaurant at 215 West 95th Street before the vote."
	assert.Equal(t, "Application: 215 West 95th Street", resolveSubject(context))
}

func TestResolveSubject_BusinessName(t *testing.T) {
	context := "We heard the request from Blue Donkey LLC about extended hours."
	assert.Equal(t, "Blue Donkey LLC Application", resolveSubject(context))
}

func TestResolveSubject_MotionSentence(t *testing.T) {
	context := "There is a motion to approve the new bus lane, seconded by the chair."
	assert.Equal(t, "Approve The New Bus Lane", resolveSubject(context))
}

func TestResolveSubject_TopicKeyword(t *testing.T) {
	context := "the applicant is seeking a liquor license renewal this cycle"
	assert.Equal(t, "Liquor License Application", resolveSubject(context))
}

func TestResolveSubject_ProceduralFallbacks(t *testing.T) {
	assert.Equal(t, "Agenda Adoption", resolveSubject("let us adopt tonight's agenda"))
	assert.Equal(t, "Minutes Approval", resolveSubject("the minutes from last month"))
	assert.Equal(t, "Motion to Adjourn", resolveSubject("we will now adjourn"))
}

func TestResolveSubject_GenericFallback(t *testing.T) {
	assert.Equal(t, "Community Board Item", resolveSubject("general chatter with no cues"))
}

func TestCleanItemText_TitleCase(t *testing.T) {
	assert.Equal(t, "The Renewal of the License", cleanItemText("the renewal of the license."))
}

func TestCleanItemText_CollapsesWhitespaceAndTrailingPunctuation(t *testing.T) {
	assert.Equal(t, "Budget Request", cleanItemText("  budget   request;  "))
}

func TestCleanItemText_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("word ", 40)
	cleaned := cleanItemText(long)

	assert.Len(t, cleaned, 100)
	assert.True(t, strings.HasSuffix(cleaned, "..."))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Approve", capitalize("APPROVE"))
	assert.Equal(t, "", capitalize(""))
}
