package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"cube_navigator/internal/models"
	"cube_navigator/internal/service"

	"github.com/google/go-cmp/cmp"
)

func TestLogsHandler_PassesFilter(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	logs := &mockEventLog{resp: []models.RobotEvent{
		{EventID: "e1", OccurredAt: now, Type: models.EventSearchStart, Description: "Looking for a cube"},
		{EventID: "e2", OccurredAt: now.Add(time.Second), Type: models.EventCubeFound, Description: "Found a cube"},
	}}
	r := newTestRouter(&service.Service{Authorization: viewerAuth(9), EventLog: logs})

	target := "/api/v1/logs/?from=" + now.Format(time.RFC3339) +
		"&to=2025-08-31&type=cube_found,error&type=motion_done&limit=20"
	w := doAuthed(r, http.MethodGet, target, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logs status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int                 `json:"count"`
		Events []models.RobotEvent `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 || len(out.Events) != 2 || out.Events[1].Type != models.EventCubeFound {
		t.Fatalf("unexpected response: %+v", out)
	}

	want := service.LogFilter{
		From:  now,
		To:    time.Date(2025, 8, 31, 23, 59, 59, 999999999, time.UTC),
		Types: []string{"cube_found", "error", "motion_done"},
		Limit: 20,
	}
	if diff := cmp.Diff(want, logs.last); diff != "" {
		t.Fatalf("filter (-want +got):\n%s", diff)
	}
}

func TestLogsHandler_BadQuery(t *testing.T) {
	logs := &mockEventLog{}
	r := newTestRouter(&service.Service{Authorization: operatorAuth(1), EventLog: logs})

	for _, q := range []string{"from=notatime", "to=31/08/2025", "limit=many"} {
		if w := doAuthed(r, http.MethodGet, "/api/v1/logs/?"+q, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", q, w.Code)
		}
	}
	if logs.calls != 0 {
		t.Fatalf("malformed queries reached the service %d times", logs.calls)
	}
}

func TestLogsHandler_ServiceErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: %q", service.ErrUnknownEventType, "BOGUS"), http.StatusBadRequest},
		{service.ErrInvalidTimeRange, http.StatusBadRequest},
		{fmt.Errorf("%w: got 5000", service.ErrInvalidLimit), http.StatusBadRequest},
		{errors.New("db locked"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		r := newTestRouter(&service.Service{Authorization: operatorAuth(1), EventLog: &mockEventLog{err: tc.err}})
		if w := doAuthed(r, http.MethodGet, "/api/v1/logs/", nil); w.Code != tc.want {
			t.Errorf("%v: status %d, want %d", tc.err, w.Code, tc.want)
		}
	}
}
