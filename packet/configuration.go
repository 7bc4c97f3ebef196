package packet

import "github.com/cooldogedev/prism/protocol"

// ConfigCustomPayload is a plugin message sent by the server during configuration.
type ConfigCustomPayload struct {
	Channel string
	Data    []byte
}

// Kind ...
func (*ConfigCustomPayload) Kind() Kind {
	return KindConfigCustomPayload
}

// Marshal ...
func (pk *ConfigCustomPayload) Marshal(io protocol.IO) {
	io.Identifier(&pk.Channel)
	io.Bytes(&pk.Data)
}

// ConfigDisconnect closes the connection during configuration.
type ConfigDisconnect struct {
	Reason protocol.Chat
}

// Kind ...
func (*ConfigDisconnect) Kind() Kind {
	return KindConfigDisconnect
}

// Marshal ...
func (pk *ConfigDisconnect) Marshal(io protocol.IO) {
	io.Chat(&pk.Reason)
}

// FinishConfiguration ends the configuration state. The client answers with
// ClientFinishConfiguration and continues in the play state.
type FinishConfiguration struct{}

// Kind ...
func (*FinishConfiguration) Kind() Kind {
	return KindFinishConfiguration
}

// Marshal ...
func (*FinishConfiguration) Marshal(protocol.IO) {}

// ConfigKeepAlive must be answered with a ConfigClientKeepAlive carrying the same ID.
type ConfigKeepAlive struct {
	ID int64
}

// Kind ...
func (*ConfigKeepAlive) Kind() Kind {
	return KindConfigKeepAlive
}

// Marshal ...
func (pk *ConfigKeepAlive) Marshal(io protocol.IO) {
	io.Int64(&pk.ID)
}

// ConfigPing must be answered with a ConfigPong carrying the same ID.
type ConfigPing struct {
	ID int32
}

// Kind ...
func (*ConfigPing) Kind() Kind {
	return KindConfigPing
}

// Marshal ...
func (pk *ConfigPing) Marshal(io protocol.IO) {
	io.Int32(&pk.ID)
}

// RegistryData carries the registry codec of the server as a single compound.
type RegistryData struct {
	Codec map[string]any
}

// Kind ...
func (*RegistryData) Kind() Kind {
	return KindRegistryData
}

// Marshal ...
func (pk *RegistryData) Marshal(io protocol.IO) {
	io.NBT(&pk.Codec)
}

// FeatureFlags lists the experimental features enabled on the server.
type FeatureFlags struct {
	Features []string
}

// Kind ...
func (*FeatureFlags) Kind() Kind {
	return KindFeatureFlags
}

// Marshal ...
func (pk *FeatureFlags) Marshal(io protocol.IO) {
	protocol.Slice(io, &pk.Features, func(io protocol.IO, x *string) {
		io.Identifier(x)
	})
}

// ClientInformation tells the server about the settings of the client.
type ClientInformation struct {
	Locale             string
	ViewDistance       int8
	ChatMode           int32
	ChatColors         bool
	DisplayedSkinParts uint8
	MainHand           int32
	TextFiltering      bool
	AllowServerListing bool
}

// Kind ...
func (*ClientInformation) Kind() Kind {
	return KindClientInformation
}

// Marshal ...
func (pk *ClientInformation) Marshal(io protocol.IO) {
	io.String(&pk.Locale)
	io.Int8(&pk.ViewDistance)
	io.Varint32(&pk.ChatMode)
	io.Bool(&pk.ChatColors)
	io.Uint8(&pk.DisplayedSkinParts)
	io.Varint32(&pk.MainHand)
	io.Bool(&pk.TextFiltering)
	io.Bool(&pk.AllowServerListing)
}

// ConfigClientCustomPayload is a plugin message sent by the client during configuration.
type ConfigClientCustomPayload struct {
	Channel string
	Data    []byte
}

// Kind ...
func (*ConfigClientCustomPayload) Kind() Kind {
	return KindConfigClientCustomPayload
}

// Marshal ...
func (pk *ConfigClientCustomPayload) Marshal(io protocol.IO) {
	io.Identifier(&pk.Channel)
	io.Bytes(&pk.Data)
}

// ClientFinishConfiguration acknowledges FinishConfiguration.
type ClientFinishConfiguration struct{}

// Kind ...
func (*ClientFinishConfiguration) Kind() Kind {
	return KindClientFinishConfiguration
}

// Marshal ...
func (*ClientFinishConfiguration) Marshal(protocol.IO) {}

// ConfigClientKeepAlive ...
type ConfigClientKeepAlive struct {
	ID int64
}

// Kind ...
func (*ConfigClientKeepAlive) Kind() Kind {
	return KindConfigClientKeepAlive
}

// Marshal ...
func (pk *ConfigClientKeepAlive) Marshal(io protocol.IO) {
	io.Int64(&pk.ID)
}

// ConfigPong ...
type ConfigPong struct {
	ID int32
}

// Kind ...
func (*ConfigPong) Kind() Kind {
	return KindConfigPong
}

// Marshal ...
func (pk *ConfigPong) Marshal(io protocol.IO) {
	io.Int32(&pk.ID)
}
