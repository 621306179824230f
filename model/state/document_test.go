package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func action(id, actionType, description string) *PendingAction {
	return &PendingAction{ID: id, ActionType: actionType, Description: description}
}

func TestDocumentPropose(t *testing.T) {
	doc := NewDocument()
	doc.Propose(action("a1", ActionDeleteFile, "Delete config.json"))

	assert.Equal(t, 1, len(doc.PendingActions))
	assert.True(t, doc.AwaitingApproval)
	assert.Equal(t, 1, doc.MessageCount)
}

func TestDocumentExecuteApproved(t *testing.T) {
	type testCase struct {
		name            string
		pending         []*PendingAction
		approved        []string
		expectedResults []string
		expectedPending int
		expectedIds     []string
		awaiting        bool
	}

	tests := []testCase{
		{
			name:            "single approved action",
			pending:         []*PendingAction{action("x", ActionDeleteFile, "Delete config.json")},
			approved:        []string{"x"},
			expectedResults: []string{"Executed delete_file: Delete config.json"},
			expectedPending: 0,
			expectedIds:     []string{},
			awaiting:        false,
		},
		{
			name: "partial approval keeps remainder pending",
			pending: []*PendingAction{
				action("x", ActionSendEmail, "Send email to bob"),
				action("y", ActionExecuteCode, "Run script"),
			},
			approved:        []string{"x"},
			expectedResults: []string{"Executed send_email: Send email to bob"},
			expectedPending: 1,
			expectedIds:     []string{},
			awaiting:        true,
		},
		{
			name:            "dangling approved id survives",
			pending:         []*PendingAction{action("x", ActionDeleteFile, "Delete a")},
			approved:        []string{"x", "gone"},
			expectedResults: []string{"Executed delete_file: Delete a"},
			expectedPending: 0,
			expectedIds:     []string{"gone"},
			awaiting:        false,
		},
		{
			name:            "no matching approvals",
			pending:         []*PendingAction{action("x", ActionDeleteFile, "Delete a")},
			approved:        []string{"other"},
			expectedResults: nil,
			expectedPending: 1,
			expectedIds:     []string{"other"},
			awaiting:        true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := NewDocument()
			for _, a := range tc.pending {
				doc.Propose(a)
			}
			doc.ApprovedActionIDs = append([]string{}, tc.approved...)

			results := doc.ExecuteApproved()

			assert.EqualValues(t, tc.expectedResults, results)
			assert.Equal(t, tc.expectedPending, len(doc.PendingActions))
			assert.EqualValues(t, tc.expectedIds, doc.ApprovedActionIDs)
			assert.Equal(t, tc.awaiting, doc.AwaitingApproval)
			assert.EqualValues(t, tc.expectedResults, doc.ExecutionResults)
		})
	}
}

func TestDocumentExecuteApprovedIdempotent(t *testing.T) {
	doc := NewDocument()
	doc.Propose(action("x", ActionDeleteFile, "Delete config.json"))
	doc.ApprovedActionIDs = []string{"x"}

	first := doc.ExecuteApproved()
	assert.Equal(t, 1, len(first))

	second := doc.ExecuteApproved()
	assert.Nil(t, second)
	assert.Equal(t, 1, len(doc.ExecutionResults))
}

func TestDocumentInvariants(t *testing.T) {
	doc := NewDocument()
	verify := func() {
		assert.Equal(t, len(doc.PendingActions) > 0, doc.AwaitingApproval)
	}

	previousCount := doc.MessageCount
	doc.Propose(action("a", ActionDeleteFile, "Delete a"))
	verify()
	assert.Greater(t, doc.MessageCount, previousCount)

	previousCount = doc.MessageCount
	doc.TrackTopic("travel")
	verify()
	assert.Greater(t, doc.MessageCount, previousCount)

	doc.ApprovedActionIDs = []string{"a"}
	doc.ExecuteApproved()
	verify()
}

func TestDocumentSnapshotIsDeepCopy(t *testing.T) {
	doc := NewDocument()
	doc.Propose(&PendingAction{ID: "a", ActionType: ActionSendEmail, Description: "Send email", Details: map[string]string{"info": "bob"}})
	doc.ApprovedActionIDs = []string{"a"}

	snapshot := doc.Snapshot()
	doc.PendingActions[0].Details["info"] = "alice"
	doc.ApprovedActionIDs[0] = "b"
	doc.ExecutionResults = append(doc.ExecutionResults, "later")

	assert.Equal(t, "bob", snapshot.PendingActions[0].Details["info"])
	assert.EqualValues(t, []string{"a"}, snapshot.ApprovedActionIDs)
	assert.Equal(t, 0, len(snapshot.ExecutionResults))
}

func TestDocumentDedupe(t *testing.T) {
	doc := NewDocument()
	doc.ApprovedActionIDs = []string{"a", "b", "a", "a"}
	doc.RejectedActionIDs = []string{"c", "c"}
	doc.Dedupe()

	assert.EqualValues(t, []string{"a", "b"}, doc.ApprovedActionIDs)
	assert.EqualValues(t, []string{"c"}, doc.RejectedActionIDs)
}
