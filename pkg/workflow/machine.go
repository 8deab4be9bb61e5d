package workflow

import (
	"fmt"
	"sync"

	"github.com/felixgeelhaar/statekit"

	"github.com/dukex/newsroom/pkg/models"
)

// EventRelease is the system event converting a due scheduled post into a published one.
// It is never offered to users.
const EventRelease models.Action = "release"

const machineID = "post"

// edges is the status graph. Each event has exactly one destination.
var edges = map[models.PostStatus]map[models.Action]models.PostStatus{
	models.StatusDraft: {
		models.ActionSubmitForDesign: models.StatusAwaitingDesign,
	},
	models.StatusAwaitingDesign: {
		models.ActionStartDesign: models.StatusInDesign,
	},
	models.StatusNeedsRevision: {
		models.ActionStartDesign: models.StatusInDesign,
	},
	models.StatusInDesign: {
		models.ActionSubmitForReview: models.StatusPendingReview,
	},
	models.StatusPendingReview: {
		models.ActionApprove:         models.StatusApproved,
		models.ActionRequestRevision: models.StatusNeedsRevision,
	},
	models.StatusApproved: {
		models.ActionPublish:  models.StatusPublished,
		models.ActionSchedule: models.StatusScheduled,
	},
	models.StatusScheduled: {
		EventRelease: models.StatusPublished,
	},
}

// NextStatus returns the destination of action from status when the graph has such an edge.
func NextStatus(from models.PostStatus, action models.Action) (models.PostStatus, bool) {
	next, ok := edges[from][action]

	return next, ok
}

// CanonicalDestination returns the single destination an action leads to, regardless of source.
func CanonicalDestination(action models.Action) (models.PostStatus, bool) {
	for _, targets := range edges {
		if next, ok := targets[action]; ok {
			return next, true
		}
	}

	return "", false
}

// graphContext is the statechart extended state: the events whose transitions fired.
type graphContext struct {
	Fired []models.Action
}

type transitionPayload struct {
	Action models.Action
	Due    bool
}

func stateID(status models.PostStatus) statekit.StateID {
	return statekit.StateID(status)
}

func eventType(action models.Action) statekit.EventType {
	return statekit.EventType(action)
}

func recordTransition(ctx *graphContext, event statekit.Event) {
	if payload, ok := event.Payload.(transitionPayload); ok {
		ctx.Fired = append(ctx.Fired, payload.Action)
	}
}

func guardReleaseDue(_ graphContext, event statekit.Event) bool {
	payload, ok := event.Payload.(transitionPayload)

	return ok && payload.Due
}

// newPostMachine builds the post statechart entered at the given status.
func newPostMachine(initial models.PostStatus) (*statekit.MachineConfig[graphContext], error) {
	return statekit.NewMachine[graphContext](machineID).
		WithInitial(stateID(initial)).
		WithContext(graphContext{}).
		WithAction("recordTransition", recordTransition).
		WithGuard("releaseDue", guardReleaseDue).
		State(stateID(models.StatusDraft)).
			On(eventType(models.ActionSubmitForDesign)).Target(stateID(models.StatusAwaitingDesign)).Do("recordTransition").
			Done().
		State(stateID(models.StatusAwaitingDesign)).
			On(eventType(models.ActionStartDesign)).Target(stateID(models.StatusInDesign)).Do("recordTransition").
			Done().
		State(stateID(models.StatusInDesign)).
			On(eventType(models.ActionSubmitForReview)).Target(stateID(models.StatusPendingReview)).Do("recordTransition").
			Done().
		State(stateID(models.StatusPendingReview)).
			On(eventType(models.ActionApprove)).Target(stateID(models.StatusApproved)).Do("recordTransition").
			On(eventType(models.ActionRequestRevision)).Target(stateID(models.StatusNeedsRevision)).Do("recordTransition").
			Done().
		State(stateID(models.StatusNeedsRevision)).
			On(eventType(models.ActionStartDesign)).Target(stateID(models.StatusInDesign)).Do("recordTransition").
			Done().
		State(stateID(models.StatusApproved)).
			On(eventType(models.ActionPublish)).Target(stateID(models.StatusPublished)).Do("recordTransition").
			On(eventType(models.ActionSchedule)).Target(stateID(models.StatusScheduled)).Do("recordTransition").
			Done().
		State(stateID(models.StatusScheduled)).
			On(eventType(EventRelease)).Target(stateID(models.StatusPublished)).Guard("releaseDue").Do("recordTransition").
			Done().
		State(stateID(models.StatusPublished)).
			Final().
			Done().
		Build()
}

// Graph runs status changes through the post statechart.
// Machines are built lazily, one per source status, and shared read-only.
type Graph struct {
	mu       sync.Mutex
	machines map[models.PostStatus]*statekit.MachineConfig[graphContext]
}

func NewGraph() *Graph {
	return &Graph{machines: make(map[models.PostStatus]*statekit.MachineConfig[graphContext])}
}

func (g *Graph) machineFor(status models.PostStatus) (*statekit.MachineConfig[graphContext], error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if machine, ok := g.machines[status]; ok {
		return machine, nil
	}

	machine, err := newPostMachine(status)
	if err != nil {
		return nil, fmt.Errorf("failed to build post machine at %s: %w", status, err)
	}

	g.machines[status] = machine

	return machine, nil
}

// Advance sends the action to a machine entered at from and returns the resulting status.
// The event is only sent when the graph has an edge for it.
func (g *Graph) Advance(from models.PostStatus, action models.Action, due bool) (models.PostStatus, error) {
	expected, ok := NextStatus(from, action)
	if !ok {
		return from, fmt.Errorf("%w: no %s edge from %s", ErrInvalidTransition, action, from)
	}

	machine, err := g.machineFor(from)
	if err != nil {
		return from, err
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()
	interp.Send(statekit.Event{
		Type:    eventType(action),
		Payload: transitionPayload{Action: action, Due: due},
	})

	state := interp.State()

	next := models.PostStatus(state.Value)
	if next == from {
		if action == EventRelease {
			return from, ErrNotDue
		}

		return from, fmt.Errorf("%w: %s rejected at %s", ErrInvalidTransition, action, from)
	}

	if len(state.Context.Fired) != 1 || state.Context.Fired[0] != action {
		return from, fmt.Errorf("%w: %s from %s fired %v", ErrInvalidTransition, action, from, state.Context.Fired)
	}

	if next != expected {
		return from, fmt.Errorf("%w: %s from %s reached %s, expected %s", ErrInvalidTransition, action, from, next, expected)
	}

	return next, nil
}

// Destination resolves where an action moves a post. The super role falls back to the
// action's canonical destination when the graph has no edge from the current status.
func (g *Graph) Destination(from models.PostStatus, action models.Action, role models.Role) (models.PostStatus, error) {
	if _, ok := NextStatus(from, action); ok {
		return g.Advance(from, action, false)
	}

	if role.IsSuper() {
		if next, ok := CanonicalDestination(action); ok {
			return next, nil
		}
	}

	return from, fmt.Errorf("%w: no %s edge from %s", ErrInvalidTransition, action, from)
}
