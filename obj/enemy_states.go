package obj

// enemyState is the interface each concrete enemy state implements. Update
// returns the horizontal movement intent for the tick.
type enemyState interface {
	Name() string
	Enter(e *Enemy, w *World)
	Exit(e *Enemy, w *World)
	Update(e *Enemy, w *World) (left, right bool)
}

// singletons for each state to avoid allocating on every transition
var (
	stateEnemyIdle       enemyState = &enemyIdleState{}
	stateEnemyPatrolling enemyState = &enemyPatrollingState{}
	stateEnemyPursuing   enemyState = &enemyPursuingState{}
	stateEnemyAttacking  enemyState = &enemyAttackingState{}
	stateEnemyDead       enemyState = &enemyDeadState{}
)

type enemyIdleState struct{}

func (enemyIdleState) Name() string             { return "idle" }
func (enemyIdleState) Enter(e *Enemy, w *World) {}
func (enemyIdleState) Exit(e *Enemy, w *World)  {}
func (enemyIdleState) Update(e *Enemy, w *World) (bool, bool) {
	if e.Behavior == BehaviorStatic {
		return false, false
	}
	if e.canSeePlayer(w) {
		e.setState(w, stateEnemyPursuing)
		return false, false
	}
	e.setState(w, stateEnemyPatrolling)
	return false, false
}

type enemyPatrollingState struct{}

func (enemyPatrollingState) Name() string { return "patrolling" }
func (enemyPatrollingState) Enter(e *Enemy, w *World) {
	e.patrolRoll.pull(w.deps.Clock.Now())
}
func (enemyPatrollingState) Exit(e *Enemy, w *World) {}
func (enemyPatrollingState) Update(e *Enemy, w *World) (bool, bool) {
	if e.canSeePlayer(w) {
		e.setState(w, stateEnemyPursuing)
		return stateEnemyPursuing.Update(e, w)
	}
	return e.patrol(w)
}

type enemyPursuingState struct{}

func (enemyPursuingState) Name() string             { return "pursuing" }
func (enemyPursuingState) Enter(e *Enemy, w *World) {}
func (enemyPursuingState) Exit(e *Enemy, w *World)  {}
func (enemyPursuingState) Update(e *Enemy, w *World) (bool, bool) {
	if !e.canSeePlayer(w) {
		e.setState(w, stateEnemyPatrolling)
		return e.patrol(w)
	}
	if e.playerInAttackRange(w) {
		if e.attackTimer.ready(w.deps.Clock.Now(), e.attack.cooldown) {
			e.setState(w, stateEnemyAttacking)
		}
		return false, false
	}
	e.fireAt(w)
	return e.pursue(w)
}

// enemyAttackingState holds position through the wind-up, strikes once and
// hands back to pursuit or patrol. Losing sight does not abort it.
type enemyAttackingState struct{}

func (enemyAttackingState) Name() string { return "attacking" }
func (enemyAttackingState) Enter(e *Enemy, w *World) {
	now := w.deps.Clock.Now()
	e.attackTimer.pull(now)
	e.attackStart = now
	e.attacking = true
	e.struck = false
	e.facePlayer(w)
}
func (enemyAttackingState) Exit(e *Enemy, w *World) {
	e.attacking = false
}
func (enemyAttackingState) Update(e *Enemy, w *World) (bool, bool) {
	if w.deps.Clock.Now()-e.attackStart < e.attack.windup {
		return false, false
	}
	if !e.struck {
		e.struck = true
		if e.playerInAttackRange(w) {
			w.hit(w.player, e.attack.damage, FactionEnemy)
		}
	}
	if e.canSeePlayer(w) {
		e.setState(w, stateEnemyPursuing)
	} else {
		e.setState(w, stateEnemyPatrolling)
	}
	return false, false
}

type enemyDeadState struct{}

func (enemyDeadState) Name() string { return "dead" }
func (enemyDeadState) Enter(e *Enemy, w *World) {
	e.diedAt = w.deps.Clock.Now()
	e.Speed = 0
	e.attacking = false
}
func (enemyDeadState) Exit(e *Enemy, w *World) {}
func (enemyDeadState) Update(e *Enemy, w *World) (bool, bool) {
	return false, false
}
