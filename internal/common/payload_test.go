package common

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload_Accepts(t *testing.T) {
	assert.True(t, JobCard{}.Accepts(MessageJobCard))
	assert.False(t, JobCard{}.Accepts(MessageAIOrderCard))
	assert.True(t, Attachment{}.Accepts(MessageFile))
	assert.True(t, Attachment{}.Accepts(MessageImage))
	assert.False(t, PaymentUpdate{}.Accepts(MessageMilestoneUpdate))
}

func TestEncodeDecodePayload(t *testing.T) {
	card := JobCard{
		JobID:    "job-1",
		Title:    "Landing page",
		Budget:   decimal.RequireFromString("1500.50"),
		Currency: "USD",
		Status:   "accepted",
	}

	raw, err := EncodePayload(card)
	require.NoError(t, err)

	decoded, err := DecodePayload(MessageJobCard, raw)
	require.NoError(t, err)
	got, ok := decoded.(JobCard)
	require.True(t, ok)
	assert.Equal(t, "job-1", got.JobID)
	assert.True(t, card.Budget.Equal(got.Budget))

	att, err := DecodePayload(MessageImage, []byte(`{"file_id":"f1","filename":"a.png","content_type":"image/png","size":10}`))
	require.NoError(t, err)
	assert.IsType(t, Attachment{}, att)

	empty, err := DecodePayload(MessageText, nil)
	assert.NoError(t, err)
	assert.Nil(t, empty)

	_, err = DecodePayload(MessageText, []byte(`{}`))
	assert.Error(t, err)

	_, err = DecodePayload(MessagePaymentUpdate, []byte(`{not json`))
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "hello there", Summarize(MessageText, Body{Text: "  hello\n there "}))

	long := strings.Repeat("é", 200)
	s := Summarize(MessageText, Body{Text: long})
	assert.Equal(t, SummaryLimit, len([]rune(s)))

	pay := PaymentUpdate{PaymentID: "p", Amount: decimal.NewFromInt(40), Currency: "EUR", Status: "completed"}
	assert.Equal(t, "Payment completed: 40.00 EUR", Summarize(MessagePaymentUpdate, Body{Payload: pay}))

	img := Attachment{FileID: "f", Filename: "cat.jpg", ContentType: "image/jpeg"}
	assert.Equal(t, "Image: cat.jpg", Summarize(MessageImage, Body{Payload: img}))
}

func TestValidateStruct_Payloads(t *testing.T) {
	assert.NoError(t, ValidateStruct(JobCard{JobID: "j", Title: "t"}))
	assert.Error(t, ValidateStruct(JobCard{Title: "t"}))
	assert.Error(t, ValidateStruct(JobCard{JobID: "j", Title: "t", Status: "maybe"}))
	assert.Error(t, ValidateStruct(PaymentUpdate{PaymentID: "p", Currency: "EURO", Status: "completed"}))
	assert.NoError(t, ValidateStruct(MilestoneUpdate{MilestoneID: "m", Title: "Design", Status: "submitted"}))
}
