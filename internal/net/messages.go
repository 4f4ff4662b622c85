package net

// Client → Server messages

type ConnectionData struct {
	Name string
}

func (*ConnectionData) Opcode() Opcode     { return OpConnectionData }
func (*ConnectionData) Reliable() bool     { return true }
func (m *ConnectionData) encode(w *Writer) { w.CString(m.Name) }
func (m *ConnectionData) decode(r *Reader) { m.Name = r.CString() }

type RequestClientNames struct{}

func (*RequestClientNames) Opcode() Opcode { return OpRequestClientNames }
func (*RequestClientNames) Reliable() bool { return true }
func (*RequestClientNames) encode(*Writer) {}
func (*RequestClientNames) decode(*Reader) {}

type RequestCvarList struct{}

func (*RequestCvarList) Opcode() Opcode { return OpRequestCvarList }
func (*RequestCvarList) Reliable() bool { return true }
func (*RequestCvarList) encode(*Writer) {}
func (*RequestCvarList) decode(*Reader) {}

type GoldChange struct {
	PlayerID int32
	Gold     int32
}

func (*GoldChange) Opcode() Opcode { return OpGoldChange }
func (*GoldChange) Reliable() bool { return true }
func (m *GoldChange) encode(w *Writer) {
	w.Int32(m.PlayerID)
	w.Int32(m.Gold)
}
func (m *GoldChange) decode(r *Reader) {
	m.PlayerID = r.Int32()
	m.Gold = r.Int32()
}

type StartGame struct{}

func (*StartGame) Opcode() Opcode { return OpStartGame }
func (*StartGame) Reliable() bool { return true }
func (*StartGame) encode(*Writer) {}
func (*StartGame) decode(*Reader) {}

type PlayerReady struct{}

func (*PlayerReady) Opcode() Opcode { return OpPlayerReady }
func (*PlayerReady) Reliable() bool { return true }
func (*PlayerReady) encode(*Writer) {}
func (*PlayerReady) decode(*Reader) {}

type RematchRequest struct{}

func (*RematchRequest) Opcode() Opcode { return OpRematchRequest }
func (*RematchRequest) Reliable() bool { return true }
func (*RematchRequest) encode(*Writer) {}
func (*RematchRequest) decode(*Reader) {}

// Relayed messages

type TargetAdded struct {
	Name   string
	ID     int32
	Target Vec3
	Clear  bool
}

func (*TargetAdded) Opcode() Opcode { return OpTargetAdded }
func (*TargetAdded) Reliable() bool { return false }
func (m *TargetAdded) encode(w *Writer) {
	w.CString(m.Name)
	w.Int32(m.ID)
	w.Vec3(m.Target)
	w.Bool(m.Clear)
}
func (m *TargetAdded) decode(r *Reader) {
	m.Name = r.CString()
	m.ID = r.Int32()
	m.Target = r.Vec3()
	m.Clear = r.Bool()
}

// SkillCast is sent by a client to request a cast and re-broadcast by the
// server once interpreted. SpawnedID is only on the wire when HasSpawned.
type SkillCast struct {
	SkillOpcode uint8
	Owner       int32
	Skill       int32
	Level       int32
	Start       Vec3
	End         Vec3
	HasSpawned  bool
	SpawnedID   int32
}

func (*SkillCast) Opcode() Opcode { return OpSkillCast }
func (*SkillCast) Reliable() bool { return true }
func (m *SkillCast) encode(w *Writer) {
	w.Uint8(m.SkillOpcode)
	w.Int32(m.Owner)
	w.Int32(m.Skill)
	w.Int32(m.Level)
	w.Vec3(m.Start)
	w.Vec3(m.End)
	if m.HasSpawned {
		w.Int32(m.SpawnedID)
	}
}
func (m *SkillCast) decode(r *Reader) {
	m.SkillOpcode = r.Uint8()
	m.Owner = r.Int32()
	m.Skill = r.Int32()
	m.Level = r.Int32()
	m.Start = r.Vec3()
	m.End = r.Vec3()
	if r.Err() == nil && r.Remaining() >= 4 {
		m.HasSpawned = true
		m.SpawnedID = r.Int32()
	}
}

type ItemAdded struct {
	PlayerID int32
	Item     string
	Level    int32
}

func (*ItemAdded) Opcode() Opcode { return OpItemAdded }
func (*ItemAdded) Reliable() bool { return true }
func (m *ItemAdded) encode(w *Writer) {
	w.Int32(m.PlayerID)
	w.CString(m.Item)
	w.Int32(m.Level)
}
func (m *ItemAdded) decode(r *Reader) {
	m.PlayerID = r.Int32()
	m.Item = r.CString()
	m.Level = r.Int32()
}

type ItemRemoved struct {
	PlayerID int32
	Item     string
	Level    int32
}

func (*ItemRemoved) Opcode() Opcode { return OpItemRemoved }
func (*ItemRemoved) Reliable() bool { return true }
func (m *ItemRemoved) encode(w *Writer) {
	w.Int32(m.PlayerID)
	w.CString(m.Item)
	w.Int32(m.Level)
}
func (m *ItemRemoved) decode(r *Reader) {
	m.PlayerID = r.Int32()
	m.Item = r.CString()
	m.Level = r.Int32()
}

type ChatMessage struct {
	From string
	Text string
}

func (*ChatMessage) Opcode() Opcode { return OpChatMessage }
func (*ChatMessage) Reliable() bool { return true }
func (m *ChatMessage) encode(w *Writer) {
	w.CString(m.From)
	w.CString(m.Text)
}
func (m *ChatMessage) decode(r *Reader) {
	m.From = r.CString()
	m.Text = r.CString()
}

// Server → Client messages

type PlayerInfo struct {
	Name     string
	ID       int32
	Position Vec3
}

type ConnectionSuccess struct {
	Phase   uint8
	Players []PlayerInfo
}

func (*ConnectionSuccess) Opcode() Opcode { return OpConnectionSuccess }
func (*ConnectionSuccess) Reliable() bool { return true }
func (m *ConnectionSuccess) encode(w *Writer) {
	w.Uint8(m.Phase)
	w.Int32(int32(len(m.Players)))
	for _, p := range m.Players {
		w.CString(p.Name)
		w.Int32(p.ID)
		w.Vec3(p.Position)
	}
}
func (m *ConnectionSuccess) decode(r *Reader) {
	m.Phase = r.Uint8()
	n := r.Count(1 + 4 + 12)
	m.Players = make([]PlayerInfo, 0, n)
	for i := 0; i < n && r.Err() == nil; i++ {
		m.Players = append(m.Players, PlayerInfo{
			Name:     r.CString(),
			ID:       r.Int32(),
			Position: r.Vec3(),
		})
	}
}

type AddPlayer struct {
	Name string
	ID   int32
	Gold int32
}

func (*AddPlayer) Opcode() Opcode { return OpAddPlayer }
func (*AddPlayer) Reliable() bool { return true }
func (m *AddPlayer) encode(w *Writer) {
	w.CString(m.Name)
	w.Int32(m.ID)
	w.Int32(m.Gold)
}
func (m *AddPlayer) decode(r *Reader) {
	m.Name = r.CString()
	m.ID = r.Int32()
	m.Gold = r.Int32()
}

type PlayerDisconnected struct {
	Name string
}

func (*PlayerDisconnected) Opcode() Opcode     { return OpPlayerDisconnected }
func (*PlayerDisconnected) Reliable() bool     { return true }
func (m *PlayerDisconnected) encode(w *Writer) { w.CString(m.Name) }
func (m *PlayerDisconnected) decode(r *Reader) { m.Name = r.CString() }

type ObjectRemoved struct {
	ID int32
}

func (*ObjectRemoved) Opcode() Opcode     { return OpObjectRemoved }
func (*ObjectRemoved) Reliable() bool     { return true }
func (m *ObjectRemoved) encode(w *Writer) { w.Int32(m.ID) }
func (m *ObjectRemoved) decode(r *Reader) { m.ID = r.Int32() }

type ConnectedClients struct {
	Names []string
}

func (*ConnectedClients) Opcode() Opcode { return OpConnectedClients }
func (*ConnectedClients) Reliable() bool { return true }
func (m *ConnectedClients) encode(w *Writer) {
	w.Int32(int32(len(m.Names)))
	for _, name := range m.Names {
		w.CString(name)
	}
}
func (m *ConnectedClients) decode(r *Reader) {
	n := r.Count(1)
	m.Names = make([]string, 0, n)
	for i := 0; i < n && r.Err() == nil; i++ {
		m.Names = append(m.Names, r.CString())
	}
}

type CvarChange struct {
	Name       string
	Value      int32
	ShowInChat bool
}

func (*CvarChange) Opcode() Opcode { return OpCvarChange }
func (*CvarChange) Reliable() bool { return true }
func (m *CvarChange) encode(w *Writer) {
	w.CString(m.Name)
	w.Int32(m.Value)
	w.Bool(m.ShowInChat)
}
func (m *CvarChange) decode(r *Reader) {
	m.Name = r.CString()
	m.Value = r.Int32()
	m.ShowInChat = r.Bool()
}

type CvarValue struct {
	Name  string
	Value int32
}

type CvarList struct {
	Cvars []CvarValue
}

func (*CvarList) Opcode() Opcode { return OpCvarList }
func (*CvarList) Reliable() bool { return true }
func (m *CvarList) encode(w *Writer) {
	w.Int32(int32(len(m.Cvars)))
	for _, c := range m.Cvars {
		w.CString(c.Name)
		w.Int32(c.Value)
	}
}
func (m *CvarList) decode(r *Reader) {
	n := r.Count(1 + 4)
	m.Cvars = make([]CvarValue, 0, n)
	for i := 0; i < n && r.Err() == nil; i++ {
		m.Cvars = append(m.Cvars, CvarValue{Name: r.CString(), Value: r.Int32()})
	}
}

// WorldUpdate carries one entity's state. The player block (animation, death
// timer, health, gold) is only present for EntityPlayer.
type WorldUpdate struct {
	EntityType EntityType
	ID         int32
	Position   Vec3
	Rotation   Vec3
	Animation  uint8
	DeathTimer float32
	Health     float32
	Gold       int32
}

func (*WorldUpdate) Opcode() Opcode { return OpWorldUpdate }
func (*WorldUpdate) Reliable() bool { return false }
func (m *WorldUpdate) encode(w *Writer) {
	w.Uint8(uint8(m.EntityType))
	w.Int32(m.ID)
	w.Vec3(m.Position)
	w.Vec3(m.Rotation)
	if m.EntityType == EntityPlayer {
		w.Uint8(m.Animation)
		w.Float32(m.DeathTimer)
		w.Float32(m.Health)
		w.Int32(m.Gold)
	}
}
func (m *WorldUpdate) decode(r *Reader) {
	m.EntityType = EntityType(r.Uint8())
	m.ID = r.Int32()
	m.Position = r.Vec3()
	m.Rotation = r.Vec3()
	if m.EntityType == EntityPlayer {
		m.Animation = r.Uint8()
		m.DeathTimer = r.Float32()
		m.Health = r.Float32()
		m.Gold = r.Int32()
	}
}

type ProjectilePlayerCollision struct {
	ProjectileID int32
	PlayerID     int32
}

func (*ProjectilePlayerCollision) Opcode() Opcode { return OpProjectilePlayerCollision }
func (*ProjectilePlayerCollision) Reliable() bool { return true }
func (m *ProjectilePlayerCollision) encode(w *Writer) {
	w.Int32(m.ProjectileID)
	w.Int32(m.PlayerID)
}
func (m *ProjectilePlayerCollision) decode(r *Reader) {
	m.ProjectileID = r.Int32()
	m.PlayerID = r.Int32()
}

type RoundStart struct{}

func (*RoundStart) Opcode() Opcode { return OpRoundStart }
func (*RoundStart) Reliable() bool { return true }
func (*RoundStart) encode(*Writer) {}
func (*RoundStart) decode(*Reader) {}

type ChangeToShopping struct{}

func (*ChangeToShopping) Opcode() Opcode { return OpChangeToShopping }
func (*ChangeToShopping) Reliable() bool { return true }
func (*ChangeToShopping) encode(*Writer) {}
func (*ChangeToShopping) decode(*Reader) {}

type ChangeToPlaying struct{}

func (*ChangeToPlaying) Opcode() Opcode { return OpChangeToPlaying }
func (*ChangeToPlaying) Reliable() bool { return true }
func (*ChangeToPlaying) encode(*Writer) {}
func (*ChangeToPlaying) decode(*Reader) {}

// RoundEnded names the round winner; empty when every player was eliminated.
type RoundEnded struct {
	Winner string
}

func (*RoundEnded) Opcode() Opcode     { return OpRoundEnded }
func (*RoundEnded) Reliable() bool     { return true }
func (m *RoundEnded) encode(w *Writer) { w.CString(m.Winner) }
func (m *RoundEnded) decode(r *Reader) { m.Winner = r.CString() }

type GameOver struct {
	Winner string
}

func (*GameOver) Opcode() Opcode     { return OpGameOver }
func (*GameOver) Reliable() bool     { return true }
func (m *GameOver) encode(w *Writer) { w.CString(m.Winner) }
func (m *GameOver) decode(r *Reader) { m.Winner = r.CString() }

type PlayerEliminated struct {
	Killed     string
	Eliminator string
}

func (*PlayerEliminated) Opcode() Opcode { return OpPlayerEliminated }
func (*PlayerEliminated) Reliable() bool { return true }
func (m *PlayerEliminated) encode(w *Writer) {
	w.CString(m.Killed)
	w.CString(m.Eliminator)
}
func (m *PlayerEliminated) decode(r *Reader) {
	m.Killed = r.CString()
	m.Eliminator = r.CString()
}

type StateTimer struct {
	Elapsed float32
}

func (*StateTimer) Opcode() Opcode     { return OpStateTimer }
func (*StateTimer) Reliable() bool     { return false }
func (m *StateTimer) encode(w *Writer) { w.Float32(m.Elapsed) }
func (m *StateTimer) decode(r *Reader) { m.Elapsed = r.Float32() }

type CountdownTick struct {
	Seconds int32
}

func (*CountdownTick) Opcode() Opcode     { return OpCountdownTick }
func (*CountdownTick) Reliable() bool     { return true }
func (m *CountdownTick) encode(w *Writer) { w.Int32(m.Seconds) }
func (m *CountdownTick) decode(r *Reader) { m.Seconds = r.Int32() }

type FloodStart struct{}

func (*FloodStart) Opcode() Opcode { return OpFloodStart }
func (*FloodStart) Reliable() bool { return true }
func (*FloodStart) encode(*Writer) {}
func (*FloodStart) decode(*Reader) {}

type ArenaRadius struct {
	Radius float32
}

func (*ArenaRadius) Opcode() Opcode     { return OpArenaRadius }
func (*ArenaRadius) Reliable() bool     { return true }
func (m *ArenaRadius) encode(w *Writer) { w.Float32(m.Radius) }
func (m *ArenaRadius) decode(r *Reader) { m.Radius = r.Float32() }

type ServerShutdown struct{}

func (*ServerShutdown) Opcode() Opcode { return OpServerShutdown }
func (*ServerShutdown) Reliable() bool { return true }
func (*ServerShutdown) encode(*Writer) {}
func (*ServerShutdown) decode(*Reader) {}

type PerformRematch struct{}

func (*PerformRematch) Opcode() Opcode { return OpPerformRematch }
func (*PerformRematch) Reliable() bool { return true }
func (*PerformRematch) encode(*Writer) {}
func (*PerformRematch) decode(*Reader) {}
