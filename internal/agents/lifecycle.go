package agents

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition is returned when a transition is not allowed from the
// agent's current state. Commands validate eligibility before transitioning,
// so seeing this error during application means the engine has a bug.
var ErrIllegalTransition = errors.New("illegal agent transition")

func illegal(a Agent, to State) error {
	return fmt.Errorf("%w: agent %d %s -> %s", ErrIllegalTransition, a.ID, a.State, to)
}

// Assign puts the agent on a duty, clearing any other duty it held.
func (a Agent) Assign(duty State, turn int) (Agent, error) {
	if !duty.IsDuty() || !a.CanAssign(turn) {
		return a, illegal(a, duty)
	}
	a.State = duty
	a.LastAssignedTurn = turn
	return a, nil
}

// Recall returns an agent on duty to Available.
func (a Agent) Recall() (Agent, error) {
	if !a.CanRecall() {
		return a, illegal(a, StateAvailable)
	}
	a.State = StateAvailable
	return a, nil
}

// Launch sends the agent towards a mission.
func (a Agent) Launch(missionID int) (Agent, error) {
	if !a.CanLaunch() {
		return a, illegal(a, StateInTransit)
	}
	a.State = StateInTransit
	a.MissionID = missionID
	a.MissionsLaunched++
	return a, nil
}

// Arrive moves a travelling agent onto its mission.
func (a Agent) Arrive() (Agent, error) {
	if a.State != StateInTransit {
		return a, illegal(a, StateOnMission)
	}
	a.State = StateOnMission
	return a, nil
}

// Survive resolves a mission the agent lived through. With recovery points
// left the agent recovers first; otherwise it is immediately available.
func (a Agent) Survive(recovery float64) (Agent, error) {
	if a.State != StateOnMission {
		return a, illegal(a, StateRecovering)
	}
	a.MissionsSurvived++
	a.MissionID = NoMission
	if recovery > 0 {
		a.State = StateRecovering
		a.Recovery = recovery
		return a, nil
	}
	a.State = StateAvailable
	a.Recovery = 0
	return a, nil
}

// Perish resolves a mission the agent did not survive.
func (a Agent) Perish(turn int) (Agent, error) {
	if a.State != StateOnMission {
		return a, illegal(a, StateTerminated)
	}
	a.State = StateTerminated
	a.TurnTerminated = turn
	return a, nil
}

// Sack discharges the agent.
func (a Agent) Sack(turn int) (Agent, error) {
	if !a.CanSack() {
		return a, illegal(a, StateTerminated)
	}
	a.State = StateTerminated
	a.TurnTerminated = turn
	a.Sacked = true
	a.MissionID = NoMission
	return a, nil
}

// Progress applies one turn of passive change: training accrues and
// recovery heals. It reports whether the agent finished recovering.
func (a Agent) Progress(recoverySpeed float64) (Agent, bool) {
	switch a.State {
	case StateTraining:
		a.TurnsInTraining++
	case StateRecovering:
		a.Recovery -= recoverySpeed
		if a.Recovery <= 0 {
			a.Recovery = 0
			a.State = StateAvailable
			return a, true
		}
	}
	return a, false
}
