package notif

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
)

func TestTemplates(t *testing.T) {
	tests := []struct {
		name        string
		req         Request
		kind        common.NotificationKind
		recipient   string
		related     string
		bodyContain string
	}{
		{"proposal new", ProposalNew("c1", "job-1", "Logo", "Sam"), common.NotificationProposalNew, "c1", "job-1", "Sam sent a proposal"},
		{"proposal accepted", ProposalAccepted("f1", "job-1", "Logo"), common.NotificationProposalAccepted, "f1", "job-1", "was accepted"},
		{"proposal rejected", ProposalRejected("f1", "job-1", "Logo"), common.NotificationProposalRejected, "f1", "job-1", "not selected"},
		{"message new", MessageNew("u2", "conv-1", "Alex", "see you"), common.NotificationMessageNew, "u2", "conv-1", "see you"},
		{"milestone submitted", MilestoneSubmitted("c1", "p1", "Wireframes"), common.NotificationMilestoneSubmitted, "c1", "p1", "Wireframes"},
		{"milestone approved", MilestoneApproved("f1", "p1", "Wireframes"), common.NotificationMilestoneApproved, "f1", "p1", "approved"},
		{"payment completed", PaymentCompleted("f1", "pay-1", decimal.RequireFromString("1250.5"), "USD"), common.NotificationPaymentCompleted, "f1", "pay-1", "1250.50 USD"},
		{"review new", ReviewNew("f1", "rev-1", "Kim", 5), common.NotificationReviewNew, "f1", "rev-1", "5-star"},
		{"system", System("u1", "Heads up", "Planned downtime"), common.NotificationSystem, "u1", "", "Planned downtime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.req.Kind)
			assert.Equal(t, tt.recipient, tt.req.RecipientID)
			assert.Equal(t, tt.related, tt.req.RelatedEntityID)
			assert.Contains(t, tt.req.Body, tt.bodyContain)
			assert.NotEmpty(t, tt.req.Title)
			assert.NoError(t, common.ValidateStruct(tt.req))
		})
	}
}

func TestMessageNewTruncatesPreview(t *testing.T) {
	req := MessageNew("u2", "conv-1", "Alex", strings.Repeat("a", 500))
	assert.Len(t, []rune(req.Body), common.SummaryLimit)
}

func TestProjectCompletedCopies(t *testing.T) {
	reqs := ProjectCompleted("c1", "f1", "p1", "Website")
	assert.Len(t, reqs, 2)
	assert.Equal(t, "c1", reqs[0].RecipientID)
	assert.Equal(t, "f1", reqs[1].RecipientID)
	for _, r := range reqs {
		assert.Equal(t, common.NotificationProjectCompleted, r.Kind)
		assert.Equal(t, "p1", r.RelatedEntityID)
	}
	assert.NotEqual(t, reqs[0].Body, reqs[1].Body)
}
