package combat

import "fmt"

// StepKind tags one observable combat event.
type StepKind int

const (
	StepArrive StepKind = iota
	StepMove
	StepMoveBack
	StepAttemptHit
	StepHit
	StepBlock
	StepEvade
	StepCounter
	StepThrow
	StepDisarm
	StepDeath
	StepSkillActivate
	StepSkillExpire
	StepPetAssist
	StepPoison
	StepRegeneration
	StepHeal
	StepEnd
	StepEquip
	StepSteal
	StepRest
	StepSkip
	StepSurvive
	StepTrap
	StepHypnotize
	StepOvertime
	StepError
	StepPetWound
)

var stepNames = [...]string{
	StepArrive:        "arrive",
	StepMove:          "move",
	StepMoveBack:      "move_back",
	StepAttemptHit:    "attempt_hit",
	StepHit:           "hit",
	StepBlock:         "block",
	StepEvade:         "evade",
	StepCounter:       "counter",
	StepThrow:         "throw",
	StepDisarm:        "disarm",
	StepDeath:         "death",
	StepSkillActivate: "skill_activate",
	StepSkillExpire:   "skill_expire",
	StepPetAssist:     "pet_assist",
	StepPoison:        "poison",
	StepRegeneration:  "regeneration",
	StepHeal:          "heal",
	StepEnd:           "end",
	StepEquip:         "equip",
	StepSteal:         "steal",
	StepRest:          "rest",
	StepSkip:          "skip",
	StepSurvive:       "survive",
	StepTrap:          "trap",
	StepHypnotize:     "hypnotize",
	StepOvertime:      "overtime",
	StepError:         "error",
	StepPetWound:      "pet_wound",
}

// String returns the snake_case name of k.
func (k StepKind) String() string {
	if k < 0 || int(k) >= len(stepNames) {
		return fmt.Sprintf("step(%d)", int(k))
	}
	return stepNames[k]
}

// MarshalText encodes k by name.
func (k StepKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a name produced by MarshalText.
func (k *StepKind) UnmarshalText(b []byte) error {
	for i, n := range stepNames {
		if n == string(b) {
			*k = StepKind(i)
			return nil
		}
	}
	return fmt.Errorf("combat: unknown step kind %q", b)
}

// NoTarget marks a step without a target fighter.
const NoTarget = -1

// Step is one immutable record of the trace.
//
// Exchange steps (AttemptHit, Hit, Block, Evade, Counter, Throw) always have
// the attacker as Actor and the defender as Target; Kind says what the
// defender did. Counter.Damage is the damage dealt back to the attacker.
// Heal, Regeneration and Rest carry the amount restored in Damage.
//
// Pet marks a step performed by or on a companion. Actor is then always the
// companion's owner and ActorHealth reports the companion's health.
//
// PetWound is the exception: the Actor's blow lands on the Target's
// companion, Pet is false and TargetHealth reports the companion's health.
type Step struct {
	Kind     StepKind `json:"kind"`
	Actor    int      `json:"actor"`
	Target   int      `json:"target"`
	Damage   int      `json:"damage,omitempty"`
	Critical bool     `json:"critical,omitempty"`
	Skill    string   `json:"skill,omitempty"`
	Weapon   string   `json:"weapon,omitempty"`
	Status   string   `json:"status,omitempty"`
	Pet      bool     `json:"pet,omitempty"`
	// Snapshots taken immediately after the event.
	ActorHealth  int `json:"actor_health"`
	TargetHealth int `json:"target_health"`
	ActorStamina int `json:"actor_stamina"`
}

// Recorder accumulates the ordered step trace of one encounter.
type Recorder struct {
	steps []Step
}

// Append adds s to the end of the trace.
func (r *Recorder) Append(s Step) {
	r.steps = append(r.steps, s)
}

// Len returns the number of recorded steps.
func (r *Recorder) Len() int { return len(r.steps) }

// Truncate discards every step after the first n.
//
// Precondition: 0 <= n <= Len().
func (r *Recorder) Truncate(n int) {
	r.steps = r.steps[:n]
}

// Steps returns a copy of the trace.
func (r *Recorder) Steps() []Step {
	return append([]Step(nil), r.steps...)
}
