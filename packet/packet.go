package packet

import "github.com/cooldogedev/prism/protocol"

// Packet is a single message of the protocol. Marshal lists the fields of the message in wire order
// and is used for decoding, encoding and describing alike: which fields exist for a version is
// decided inside Marshal by comparing io.Version() against the version constants.
type Packet interface {
	// Kind returns the kind of the message.
	Kind() Kind
	// Marshal reads or writes the fields of the message through io.
	Marshal(io protocol.IO)
}

// Kind identifies a message type independently of the protocol version. Numeric ids only exist in
// the id tables of the Registry.
type Kind uint16

const (
	KindIntention Kind = iota

	KindStatusRequest
	KindPingRequest
	KindStatusResponse
	KindPongResponse

	KindLoginStart
	KindEncryptionResponse
	KindCustomQueryAnswer
	KindLoginAcknowledged
	KindLoginDisconnect
	KindEncryptionRequest
	KindGameProfile
	KindLoginCompression
	KindCustomQuery

	KindConfigCustomPayload
	KindConfigDisconnect
	KindFinishConfiguration
	KindConfigKeepAlive
	KindConfigPing
	KindRegistryData
	KindFeatureFlags
	KindClientInformation
	KindConfigClientCustomPayload
	KindClientFinishConfiguration
	KindConfigClientKeepAlive
	KindConfigPong

	KindAnimate
	KindDisconnect
	KindKeepAlive
	KindPing
	KindSetDefaultSpawnPosition
	KindSetTitleText
	KindCustomPayload
	KindStartConfiguration
	KindClientKeepAlive
	KindPong
	KindClientCustomPayload
	KindSwing
	KindMovePlayerPos
	KindConfigurationAcknowledged

	kindCount
)

// kindInfo holds the version independent metadata of a kind. until is zero for kinds that are still
// part of the latest version.
type kindInfo struct {
	name      string
	direction protocol.Direction
	state     protocol.State
	since     protocol.Version
	until     protocol.Version
	new       func() Packet
}

const (
	cb = protocol.Clientbound
	sb = protocol.Serverbound
)

var kinds = [kindCount]kindInfo{
	KindIntention: {"Intention", sb, protocol.StateHandshake, protocol.V1_12_2, 0, func() Packet { return &Intention{} }},

	KindStatusRequest:  {"StatusRequest", sb, protocol.StateStatus, protocol.V1_12_2, 0, func() Packet { return &StatusRequest{} }},
	KindPingRequest:    {"PingRequest", sb, protocol.StateStatus, protocol.V1_12_2, 0, func() Packet { return &PingRequest{} }},
	KindStatusResponse: {"StatusResponse", cb, protocol.StateStatus, protocol.V1_12_2, 0, func() Packet { return &StatusResponse{} }},
	KindPongResponse:   {"PongResponse", cb, protocol.StateStatus, protocol.V1_12_2, 0, func() Packet { return &PongResponse{} }},

	KindLoginStart:         {"LoginStart", sb, protocol.StateLogin, protocol.V1_12_2, 0, func() Packet { return &LoginStart{} }},
	KindEncryptionResponse: {"EncryptionResponse", sb, protocol.StateLogin, protocol.V1_12_2, 0, func() Packet { return &EncryptionResponse{} }},
	KindCustomQueryAnswer:  {"CustomQueryAnswer", sb, protocol.StateLogin, protocol.V1_13, 0, func() Packet { return &CustomQueryAnswer{} }},
	KindLoginAcknowledged:  {"LoginAcknowledged", sb, protocol.StateLogin, protocol.V1_20_2, 0, func() Packet { return &LoginAcknowledged{} }},
	KindLoginDisconnect:    {"LoginDisconnect", cb, protocol.StateLogin, protocol.V1_12_2, 0, func() Packet { return &LoginDisconnect{} }},
	KindEncryptionRequest:  {"EncryptionRequest", cb, protocol.StateLogin, protocol.V1_12_2, 0, func() Packet { return &EncryptionRequest{} }},
	KindGameProfile:        {"GameProfile", cb, protocol.StateLogin, protocol.V1_12_2, 0, func() Packet { return &GameProfile{} }},
	KindLoginCompression:   {"LoginCompression", cb, protocol.StateLogin, protocol.V1_12_2, 0, func() Packet { return &LoginCompression{} }},
	KindCustomQuery:        {"CustomQuery", cb, protocol.StateLogin, protocol.V1_13, 0, func() Packet { return &CustomQuery{} }},

	KindConfigCustomPayload:       {"ConfigCustomPayload", cb, protocol.StateConfiguration, protocol.V1_20_2, 0, func() Packet { return &ConfigCustomPayload{} }},
	KindConfigDisconnect:          {"ConfigDisconnect", cb, protocol.StateConfiguration, protocol.V1_20_2, 0, func() Packet { return &ConfigDisconnect{} }},
	KindFinishConfiguration:       {"FinishConfiguration", cb, protocol.StateConfiguration, protocol.V1_20_2, 0, func() Packet { return &FinishConfiguration{} }},
	KindConfigKeepAlive:           {"ConfigKeepAlive", cb, protocol.StateConfiguration, protocol.V1_20_2, 0, func() Packet { return &ConfigKeepAlive{} }},
	KindConfigPing:                {"ConfigPing", cb, protocol.StateConfiguration, protocol.V1_20_2, 0, func() Packet { return &ConfigPing{} }},
	KindRegistryData:              {"RegistryData", cb, protocol.StateConfiguration, protocol.V1_20_2, 0, func() Packet { return &RegistryData{} }},
	KindFeatureFlags:              {"FeatureFlags", cb, protocol.StateConfiguration, protocol.V1_20_2, 0, func() Packet { return &FeatureFlags{} }},
	KindClientInformation:         {"ClientInformation", sb, protocol.StateConfiguration, protocol.V1_20_2, 0, func() Packet { return &ClientInformation{} }},
	KindConfigClientCustomPayload: {"ConfigClientCustomPayload", sb, protocol.StateConfiguration, protocol.V1_20_2, 0, func() Packet { return &ConfigClientCustomPayload{} }},
	KindClientFinishConfiguration: {"ClientFinishConfiguration", sb, protocol.StateConfiguration, protocol.V1_20_2, 0, func() Packet { return &ClientFinishConfiguration{} }},
	KindConfigClientKeepAlive:     {"ConfigClientKeepAlive", sb, protocol.StateConfiguration, protocol.V1_20_2, 0, func() Packet { return &ConfigClientKeepAlive{} }},
	KindConfigPong:                {"ConfigPong", sb, protocol.StateConfiguration, protocol.V1_20_2, 0, func() Packet { return &ConfigPong{} }},

	KindAnimate:                   {"Animate", cb, protocol.StatePlay, protocol.V1_12_2, 0, func() Packet { return &Animate{} }},
	KindDisconnect:                {"Disconnect", cb, protocol.StatePlay, protocol.V1_12_2, 0, func() Packet { return &Disconnect{} }},
	KindKeepAlive:                 {"KeepAlive", cb, protocol.StatePlay, protocol.V1_12_2, 0, func() Packet { return &KeepAlive{} }},
	KindPing:                      {"Ping", cb, protocol.StatePlay, protocol.V1_17, 0, func() Packet { return &Ping{} }},
	KindSetDefaultSpawnPosition:   {"SetDefaultSpawnPosition", cb, protocol.StatePlay, protocol.V1_12_2, 0, func() Packet { return &SetDefaultSpawnPosition{} }},
	KindSetTitleText:              {"SetTitleText", cb, protocol.StatePlay, protocol.V1_17, 0, func() Packet { return &SetTitleText{} }},
	KindCustomPayload:             {"CustomPayload", cb, protocol.StatePlay, protocol.V1_12_2, 0, func() Packet { return &CustomPayload{} }},
	KindStartConfiguration:        {"StartConfiguration", cb, protocol.StatePlay, protocol.V1_20_2, 0, func() Packet { return &StartConfiguration{} }},
	KindClientKeepAlive:           {"ClientKeepAlive", sb, protocol.StatePlay, protocol.V1_12_2, 0, func() Packet { return &ClientKeepAlive{} }},
	KindPong:                      {"Pong", sb, protocol.StatePlay, protocol.V1_17, 0, func() Packet { return &Pong{} }},
	KindClientCustomPayload:       {"ClientCustomPayload", sb, protocol.StatePlay, protocol.V1_12_2, 0, func() Packet { return &ClientCustomPayload{} }},
	KindSwing:                     {"Swing", sb, protocol.StatePlay, protocol.V1_12_2, 0, func() Packet { return &Swing{} }},
	KindMovePlayerPos:             {"MovePlayerPos", sb, protocol.StatePlay, protocol.V1_12_2, 0, func() Packet { return &MovePlayerPos{} }},
	KindConfigurationAcknowledged: {"ConfigurationAcknowledged", sb, protocol.StatePlay, protocol.V1_20_2, 0, func() Packet { return &ConfigurationAcknowledged{} }},
}

// Kinds returns every kind in the catalog.
func Kinds() []Kind {
	all := make([]Kind, kindCount)
	for i := range all {
		all[i] = Kind(i)
	}
	return all
}

// String ...
func (k Kind) String() string {
	if k >= kindCount {
		return "Kind(invalid)"
	}
	return kinds[k].name
}

// Direction returns the direction the kind travels in.
func (k Kind) Direction() protocol.Direction {
	return kinds[k].direction
}

// State returns the connection state the kind belongs to.
func (k Kind) State() protocol.State {
	return kinds[k].state
}

// ValidAt reports whether the kind exists in version v.
func (k Kind) ValidAt(v protocol.Version) bool {
	info := kinds[k]
	return v >= info.since && (info.until == 0 || v <= info.until)
}

// New returns a new, empty message of the kind.
func (k Kind) New() Packet {
	return kinds[k].new()
}
