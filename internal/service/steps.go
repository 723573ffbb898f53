package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"

	"screenbot/internal/model"
)

// Step transition events
const (
	EventStart      = "start"
	EventConfirm    = "confirm"
	EventAnswer     = "answer"
	EventSubmitLink = "submit_link"
	EventReset      = "reset"
	EventCancel     = "cancel"
)

var allSteps = []string{
	string(model.StepIdle),
	string(model.StepAwaitingStart),
	string(model.StepQ1), string(model.StepQ2), string(model.StepQ3),
	string(model.StepQ4), string(model.StepQ5), string(model.StepQ6),
	string(model.StepAwaitingLink),
	string(model.StepCompleted),
}

// stepEvents is the whole transition table. Questions advance strictly in order.
var stepEvents = fsm.Events{
	{Name: EventStart, Src: allSteps, Dst: string(model.StepAwaitingStart)},
	{Name: EventConfirm, Src: []string{string(model.StepAwaitingStart)}, Dst: string(model.StepQ1)},
	{Name: EventAnswer, Src: []string{string(model.StepQ1)}, Dst: string(model.StepQ2)},
	{Name: EventAnswer, Src: []string{string(model.StepQ2)}, Dst: string(model.StepQ3)},
	{Name: EventAnswer, Src: []string{string(model.StepQ3)}, Dst: string(model.StepQ4)},
	{Name: EventAnswer, Src: []string{string(model.StepQ4)}, Dst: string(model.StepQ5)},
	{Name: EventAnswer, Src: []string{string(model.StepQ5)}, Dst: string(model.StepQ6)},
	{Name: EventAnswer, Src: []string{string(model.StepQ6)}, Dst: string(model.StepAwaitingLink)},
	{Name: EventSubmitLink, Src: []string{string(model.StepAwaitingLink)}, Dst: string(model.StepCompleted)},
	{Name: EventReset, Src: []string{string(model.StepCompleted)}, Dst: string(model.StepIdle)},
	{Name: EventCancel, Src: allSteps, Dst: string(model.StepIdle)},
}

// ErrIllegalStep is returned for an event the current step does not accept
var ErrIllegalStep = errors.New("illegal step transition")

// fireStep applies event to the session step. Self-transitions (start while
// awaiting start, cancel while idle) are not errors.
func fireStep(ctx context.Context, session *model.Session, event string) error {
	machine := fsm.NewFSM(string(session.Step), stepEvents, fsm.Callbacks{})
	err := machine.Event(ctx, event)

	var noTransition fsm.NoTransitionError
	if err != nil && !errors.As(err, &noTransition) {
		return fmt.Errorf("%w: %s from %s: %v", ErrIllegalStep, event, session.Step, err)
	}
	session.Step = model.Step(machine.Current())
	return nil
}

// canFire reports whether event is accepted in the session's current step
func canFire(session *model.Session, event string) bool {
	return fsm.NewFSM(string(session.Step), stepEvents, fsm.Callbacks{}).Can(event)
}
