package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cyberhope-ai/committee_server/models"
	"github.com/google/uuid"
)

// ActionPayload is the wire shape sent to the governance backend.
type ActionPayload struct {
	Type           models.ActionType `json:"type"`
	CommitteeID    uint              `json:"committee_id"`
	EventID        string            `json:"event_id"`
	Recommendation models.Stance     `json:"recommendation"`
	Notes          string            `json:"notes,omitempty"`
}

// ActionOutcome is the backend's reply to a dispatched action.
type ActionOutcome struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	ActionID  string   `json:"action_id"`
	NextSteps []string `json:"next_steps,omitempty"`
}

// ActionTransport performs the out-of-process side effect of a governance
// action. The dispatcher layers idempotency and status transitions on top.
type ActionTransport interface {
	Send(ctx context.Context, payload ActionPayload) (*ActionOutcome, error)
}

// SelectActionTransport uses the real backend when ACTION_BACKEND_URL is
// set, otherwise a local transport that only logs.
func SelectActionTransport() ActionTransport {
	if url := os.Getenv("ACTION_BACKEND_URL"); url != "" {
		return NewHTTPActionTransport(url)
	}
	return NewLocalActionTransport()
}

// HTTPActionTransport posts actions to the officiating governance backend.
type HTTPActionTransport struct {
	baseURL string
	client  *http.Client
}

func NewHTTPActionTransport(baseURL string) *HTTPActionTransport {
	return &HTTPActionTransport{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *HTTPActionTransport) Send(ctx context.Context, payload ActionPayload) (*ActionOutcome, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		t.baseURL+"/governance/actions",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("action backend error: %s", string(respBody))
	}

	var outcome ActionOutcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return nil, err
	}

	return &outcome, nil
}

// LocalActionTransport fabricates successful outcomes for development.
type LocalActionTransport struct{}

func NewLocalActionTransport() *LocalActionTransport {
	return &LocalActionTransport{}
}

func (t *LocalActionTransport) Send(ctx context.Context, payload ActionPayload) (*ActionOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var message string
	var nextSteps []string

	switch payload.Type {
	case models.ActionSendToReferee:
		message = fmt.Sprintf("Referee crew notified: call %s for event %s", payload.Recommendation, payload.EventID)
		nextSteps = []string{"Referee crew acknowledges the ruling", "Ruling appears in the crew's post-game report"}
	case models.ActionEscalateToLeague:
		message = fmt.Sprintf("Ruling for event %s escalated to the league office", payload.EventID)
		nextSteps = []string{"League office reviews within 48 hours", "Standings adjustment if applicable"}
	case models.ActionCreateTeachingPackage:
		message = fmt.Sprintf("Teaching package queued for event %s", payload.EventID)
		nextSteps = []string{"Clip and committee reasoning compiled", "Package published to the officiating library"}
	default:
		return nil, fmt.Errorf("unknown action type %q", payload.Type)
	}

	fmt.Println("Dispatched governance action:", payload.Type, "for case", payload.CommitteeID)

	return &ActionOutcome{
		Success:   true,
		Message:   message,
		ActionID:  uuid.New().String(),
		NextSteps: nextSteps,
	}, nil
}
