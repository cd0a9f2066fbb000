package launch

import (
	"encoding/json"
	"testing"

	"github.com/armada-cluster/armada/internal/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPayload(t *testing.T) {
	t.Run("marshaled request passes", func(t *testing.T) {
		req := Request{
			ID:          uuid.New(),
			FrameworkID: task.FrameworkID{Value: "fw-1"},
			Task: task.TaskInfo{
				Name:    "web",
				TaskID:  task.TaskID{Value: "web-1"},
				AgentID: task.AgentID{Value: "agent-1"},
			},
		}

		raw, err := json.Marshal(req)
		require.NoError(t, err)

		assert.NoError(t, CheckPayload(raw))
	})

	testcases := []struct {
		desc string
		raw  string
	}{
		{
			desc: "malformed json",
			raw:  `{"id":`,
		},
		{
			desc: "missing task",
			raw:  `{"id":"00000000-0000-0000-0000-000000000000","frameworkID":{"value":"fw"}}`,
		},
		{
			desc: "secret type outside the known set",
			raw: `{
				"id": "00000000-0000-0000-0000-000000000000",
				"frameworkID": {"value": "fw"},
				"task": {
					"name": "web",
					"taskID": {"value": "t"},
					"agentID": {"value": "a"},
					"command": {
						"environment": {"variables": [
							{"name": "X", "type": "SECRET", "secret": {"type": "GARBAGE"}}
						]}
					}
				}
			}`,
		},
		{
			desc: "environment variable type outside the known set",
			raw: `{
				"id": "00000000-0000-0000-0000-000000000000",
				"frameworkID": {"value": "fw"},
				"task": {
					"name": "web",
					"taskID": {"value": "t"},
					"agentID": {"value": "a"},
					"command": {
						"environment": {"variables": [{"name": "X", "type": "GARBAGE"}]}
					}
				}
			}`,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Error(t, CheckPayload([]byte(tc.raw)))
		})
	}
}
