package player

const preySlots = 3

type PreyState uint8

const (
	PreyLocked PreyState = iota
	PreyInactive
	PreyActive
	PreySelection
)

type PreyBonus uint8

const (
	PreyBonusNone PreyBonus = iota
	PreyBonusDamage
	PreyBonusDefense
	PreyBonusExperience
	PreyBonusLoot
)

// PreySlot is one of the three prey windows.
type PreySlot struct {
	ID            uint8
	State         PreyState
	RaceID        uint16
	Bonus         PreyBonus
	BonusRarity   uint8
	BonusPercent  uint16
	BonusTimeLeft uint16 // seconds
	FreeRerollAt  int64  // unix ms
	RaceList      []uint16
}

type TaskState uint8

const (
	TaskLocked TaskState = iota
	TaskInactive
	TaskSelection
	TaskActive
	TaskCompleted
)

// TaskHuntingSlot is one of the three hunting task windows.
type TaskHuntingSlot struct {
	ID           uint8
	State        TaskState
	RaceID       uint16
	Upgrade      bool
	Rarity       uint8
	CurrentKills uint16
	FirstKills   uint16
	SecondKills  uint16
	FreeRerollAt int64 // unix ms
	RaceList     []uint16
}

// required is the kill count that completes the task.
func (t *TaskHuntingSlot) required() uint16 {
	if t.Upgrade {
		return t.SecondKills
	}
	return t.FirstKills
}

// InitializePrey creates the prey and hunting task slots. Disabled
// features get inactive slots; the third slot stays locked unless it is
// free.
func (p *Player) InitializePrey() {
	cfg := p.env.Cfg.Prey
	for i := range uint8(preySlots) {
		if p.prey[i] == nil {
			s := &PreySlot{ID: i, State: PreySelection}
			switch {
			case !cfg.Enabled:
				s.State = PreyInactive
			case i == preySlots-1 && !cfg.FreeThirdSlot:
				s.State = PreyLocked
			}
			p.prey[i] = s
		}
		if p.taskHunting[i] == nil {
			t := &TaskHuntingSlot{ID: i, State: TaskSelection}
			switch {
			case !cfg.TaskHuntingEnabled:
				t.State = TaskInactive
			case i == preySlots-1 && !cfg.TaskHuntingFreeThirdSlot:
				t.State = TaskLocked
			}
			p.taskHunting[i] = t
		}
	}
}

func (p *Player) PreySlot(id uint8) *PreySlot {
	if id >= preySlots {
		return nil
	}
	return p.prey[id]
}

func (p *Player) TaskHuntingSlot(id uint8) *TaskHuntingSlot {
	if id >= preySlots {
		return nil
	}
	return p.taskHunting[id]
}

// PreyWithMonster returns the active prey slot hunting raceID.
func (p *Player) PreyWithMonster(raceID uint16) *PreySlot {
	if !p.env.Cfg.Prey.Enabled {
		return nil
	}
	for _, s := range p.prey {
		if s != nil && s.State == PreyActive && s.RaceID == raceID {
			return s
		}
	}
	return nil
}

func (p *Player) taskWithMonster(raceID uint16) *TaskHuntingSlot {
	if !p.env.Cfg.Prey.TaskHuntingEnabled {
		return nil
	}
	for _, t := range p.taskHunting {
		if t != nil && t.State == TaskActive && t.RaceID == raceID {
			return t
		}
	}
	return nil
}

// addHuntingKill counts a monster kill towards an active hunting task.
func (p *Player) addHuntingKill(raceID uint16) {
	t := p.taskWithMonster(raceID)
	if t == nil || t.required() == 0 {
		return
	}
	t.CurrentKills++
	if t.CurrentKills >= t.required() {
		t.State = TaskCompleted
		p.client.SendTextMessage(MessageStatus, "You succesfully finished your hunting task. Your reward is ready to be claimed!")
	}
}
