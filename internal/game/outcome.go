package game

type BattleOutcome int

const (
	OutcomeInconclusive BattleOutcome = iota
	OutcomeFriendlyVictory
	OutcomeEnemyVictory
	OutcomeDraw
)

func (o BattleOutcome) String() string {
	switch o {
	case OutcomeFriendlyVictory:
		return "friendly_victory"
	case OutcomeEnemyVictory:
		return "enemy_victory"
	case OutcomeDraw:
		return "draw"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

type BattleOutcomeReason struct {
	Outcome           BattleOutcome
	FriendlySurvivors int
	FriendlyTotal     int
	EnemySurvivors    int
	EnemyTotal        int
	FriendlyHoldTime  float64
	EnemyHoldTime     float64
	Description       string
}

// objectiveHoldMargin is how many seconds longer one side must have held its
// objective to break a casualty tie.
const objectiveHoldMargin = 5.0

// DetermineOutcome judges a battle from a snapshot. Survivors are soldiers
// not yet dying; totals are everyone ever spawned on that side.
func DetermineOutcome(snap Snapshot) BattleOutcomeReason {
	fTotal, eTotal := snap.Spawned[SideFriendly], snap.Spawned[SideEnemy]
	fAlive, eAlive := snap.Alive(SideFriendly), snap.Alive(SideEnemy)

	reason := func(o BattleOutcome, desc string) BattleOutcomeReason {
		return BattleOutcomeReason{
			Outcome:           o,
			FriendlySurvivors: fAlive,
			FriendlyTotal:     fTotal,
			EnemySurvivors:    eAlive,
			EnemyTotal:        eTotal,
			FriendlyHoldTime:  snap.HoldTime[SideFriendly],
			EnemyHoldTime:     snap.HoldTime[SideEnemy],
			Description:       desc,
		}
	}

	if fTotal == 0 || eTotal == 0 {
		return reason(OutcomeInconclusive, "inconclusive_side_never_deployed")
	}
	if fAlive == 0 && eAlive > 0 {
		return reason(OutcomeEnemyVictory, "decisive_enemy_victory_friendly_eliminated")
	}
	if eAlive == 0 && fAlive > 0 {
		return reason(OutcomeFriendlyVictory, "decisive_friendly_victory_enemy_eliminated")
	}
	if fAlive == 0 && eAlive == 0 {
		return reason(OutcomeDraw, "mutual_annihilation")
	}

	fRate := float64(fTotal-fAlive) / float64(fTotal)
	eRate := float64(eTotal-eAlive) / float64(eTotal)
	diff := eRate - fRate

	if diff > 0.30 && fRate < 0.50 {
		return reason(OutcomeFriendlyVictory, "marginal_friendly_victory_casualty_advantage")
	}
	if diff < -0.30 && eRate < 0.50 {
		return reason(OutcomeEnemyVictory, "marginal_enemy_victory_casualty_advantage")
	}

	hold := snap.HoldTime[SideFriendly] - snap.HoldTime[SideEnemy]
	if diff >= -0.20 && diff <= 0.20 {
		switch {
		case hold > objectiveHoldMargin:
			return reason(OutcomeFriendlyVictory, "friendly_victory_objective_held")
		case hold < -objectiveHoldMargin:
			return reason(OutcomeEnemyVictory, "enemy_victory_objective_held")
		case fRate > 0.30 || eRate > 0.30:
			return reason(OutcomeDraw, "draw_similar_casualties")
		}
	}
	return reason(OutcomeInconclusive, "inconclusive_insufficient_resolution")
}
