package packet

import (
	"github.com/cooldogedev/prism/protocol"
	"github.com/go-gl/mathgl/mgl64"
)

// Animate plays an animation on an entity.
type Animate struct {
	EntityID int32
	Action   uint8
}

// Kind ...
func (*Animate) Kind() Kind {
	return KindAnimate
}

// Marshal ...
func (pk *Animate) Marshal(io protocol.IO) {
	io.Varint32(&pk.EntityID)
	io.Uint8(&pk.Action)
}

// Disconnect closes the connection during play.
type Disconnect struct {
	Reason protocol.Chat
}

// Kind ...
func (*Disconnect) Kind() Kind {
	return KindDisconnect
}

// Marshal ...
func (pk *Disconnect) Marshal(io protocol.IO) {
	io.Chat(&pk.Reason)
}

// KeepAlive must be answered with a ClientKeepAlive carrying the same ID.
type KeepAlive struct {
	ID int64
}

// Kind ...
func (*KeepAlive) Kind() Kind {
	return KindKeepAlive
}

// Marshal ...
func (pk *KeepAlive) Marshal(io protocol.IO) {
	io.Int64(&pk.ID)
}

// Ping must be answered with a Pong carrying the same ID.
type Ping struct {
	ID int32
}

// Kind ...
func (*Ping) Kind() Kind {
	return KindPing
}

// Marshal ...
func (pk *Ping) Marshal(io protocol.IO) {
	io.Int32(&pk.ID)
}

// SetDefaultSpawnPosition sets the position compasses point to.
type SetDefaultSpawnPosition struct {
	Position protocol.BlockPos
	// Angle is sent from 1.17 on.
	Angle float32
}

// Kind ...
func (*SetDefaultSpawnPosition) Kind() Kind {
	return KindSetDefaultSpawnPosition
}

// Marshal ...
func (pk *SetDefaultSpawnPosition) Marshal(io protocol.IO) {
	io.BlockPos(&pk.Position)
	if io.Version() >= protocol.V1_17 {
		io.Float32(&pk.Angle)
	}
}

// SetTitleText shows a title on the screen.
type SetTitleText struct {
	Text protocol.Chat
}

// Kind ...
func (*SetTitleText) Kind() Kind {
	return KindSetTitleText
}

// Marshal ...
func (pk *SetTitleText) Marshal(io protocol.IO) {
	io.Chat(&pk.Text)
}

// CustomPayload is a plugin message sent by the server.
type CustomPayload struct {
	Channel string
	Data    []byte
}

// Kind ...
func (*CustomPayload) Kind() Kind {
	return KindCustomPayload
}

// Marshal ...
func (pk *CustomPayload) Marshal(io protocol.IO) {
	io.Identifier(&pk.Channel)
	io.Bytes(&pk.Data)
}

// StartConfiguration moves a playing client back to the configuration state. The client answers
// with ConfigurationAcknowledged.
type StartConfiguration struct{}

// Kind ...
func (*StartConfiguration) Kind() Kind {
	return KindStartConfiguration
}

// Marshal ...
func (*StartConfiguration) Marshal(protocol.IO) {}

// ClientKeepAlive ...
type ClientKeepAlive struct {
	ID int64
}

// Kind ...
func (*ClientKeepAlive) Kind() Kind {
	return KindClientKeepAlive
}

// Marshal ...
func (pk *ClientKeepAlive) Marshal(io protocol.IO) {
	io.Int64(&pk.ID)
}

// Pong ...
type Pong struct {
	ID int32
}

// Kind ...
func (*Pong) Kind() Kind {
	return KindPong
}

// Marshal ...
func (pk *Pong) Marshal(io protocol.IO) {
	io.Int32(&pk.ID)
}

// ClientCustomPayload is a plugin message sent by the client.
type ClientCustomPayload struct {
	Channel string
	Data    []byte
}

// Kind ...
func (*ClientCustomPayload) Kind() Kind {
	return KindClientCustomPayload
}

// Marshal ...
func (pk *ClientCustomPayload) Marshal(io protocol.IO) {
	io.Identifier(&pk.Channel)
	io.Bytes(&pk.Data)
}

// Swing swings the arm of the player.
type Swing struct {
	Hand int32
}

// Kind ...
func (*Swing) Kind() Kind {
	return KindSwing
}

// Marshal ...
func (pk *Swing) Marshal(io protocol.IO) {
	io.Varint32(&pk.Hand)
}

// MovePlayerPos moves the player without changing its rotation.
type MovePlayerPos struct {
	Position mgl64.Vec3
	OnGround bool
}

// Kind ...
func (*MovePlayerPos) Kind() Kind {
	return KindMovePlayerPos
}

// Marshal ...
func (pk *MovePlayerPos) Marshal(io protocol.IO) {
	io.Vec3(&pk.Position)
	io.Bool(&pk.OnGround)
}

// ConfigurationAcknowledged confirms StartConfiguration.
type ConfigurationAcknowledged struct{}

// Kind ...
func (*ConfigurationAcknowledged) Kind() Kind {
	return KindConfigurationAcknowledged
}

// Marshal ...
func (*ConfigurationAcknowledged) Marshal(protocol.IO) {}
