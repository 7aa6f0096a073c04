package event

// Player lifecycle and progression events. IDs are player GUIDs.

type PlayerLoggedIn struct {
	PlayerID uint32
	Name     string
}

type PlayerLoggedOut struct {
	PlayerID uint32
	Name     string
	Saved    bool
}

// PlayerAdvanced fires once per level step of experience, magic level or a
// skill. Skill is the skill name ("level" and "magic level" included).
type PlayerAdvanced struct {
	PlayerID uint32
	Skill    string
	OldLevel int
	NewLevel int
}

// PlayerDied carries the level the player died at. KilledBy is empty when
// the last hit had no source.
type PlayerDied struct {
	PlayerID  uint32
	Level     uint32
	KilledBy  string
	Time      int64 // unix seconds
	PvPDeath  bool
	LostExp   uint64
	SkillLoss bool
}

type StorageUpdated struct {
	PlayerID uint32
	Key      uint32
	Value    int32
	OldValue int32
	HadOld   bool
}

type VIPStatusChanged struct {
	PlayerID uint32
	Name     string
	Online   bool
}

// SaveRequested asks the persistence system to save a player out of band.
type SaveRequested struct {
	PlayerID uint32
}
