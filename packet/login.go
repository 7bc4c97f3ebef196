package packet

import (
	"github.com/cooldogedev/prism/protocol"
	"github.com/google/uuid"
)

// LoginStart starts the login sequence with the name of the player.
type LoginStart struct {
	Name string
	// ProfileKey is the chat signing key of the player, sent by 1.19 and 1.19.1 clients.
	ProfileKey *ProfileKey
	// HasPlayerUUID reports whether PlayerUUID is set. It is only on the wire from 1.19.1 until
	// 1.20.1; later versions always carry the UUID.
	HasPlayerUUID bool
	PlayerUUID    uuid.UUID
}

// ProfileKey is the public key Mojang issued for a player along with its signature.
type ProfileKey struct {
	ExpiresAt int64
	PublicKey []byte
	Signature []byte
}

// Kind ...
func (*LoginStart) Kind() Kind {
	return KindLoginStart
}

// Marshal ...
func (pk *LoginStart) Marshal(io protocol.IO) {
	io.String(&pk.Name)
	if io.Version() >= protocol.V1_19 && io.Version() <= protocol.V1_19_1 {
		protocol.OptionalFunc(io, &pk.ProfileKey, marshalProfileKey)
	}
	switch {
	case io.Version() >= protocol.V1_20_2:
		io.UUID(&pk.PlayerUUID)
	case io.Version() >= protocol.V1_19_1:
		io.Bool(&pk.HasPlayerUUID)
		if pk.HasPlayerUUID {
			io.UUID(&pk.PlayerUUID)
		}
	}
}

func marshalProfileKey(io protocol.IO, x *ProfileKey) {
	io.Int64(&x.ExpiresAt)
	io.ByteSlice(&x.PublicKey)
	io.ByteSlice(&x.Signature)
}

// EncryptionResponse answers an EncryptionRequest with the shared secret and the verify token, both
// encrypted with the public key of the server.
type EncryptionResponse struct {
	SharedSecret []byte
	VerifyToken  []byte
	// Salt and MessageSignature replace VerifyToken for 1.19 and 1.19.1 clients that sign the
	// token with their profile key. They are used when VerifyToken is nil.
	Salt             int64
	MessageSignature []byte
}

// Kind ...
func (*EncryptionResponse) Kind() Kind {
	return KindEncryptionResponse
}

// Marshal ...
func (pk *EncryptionResponse) Marshal(io protocol.IO) {
	io.ByteSlice(&pk.SharedSecret)
	if io.Version() >= protocol.V1_19 && io.Version() <= protocol.V1_19_1 {
		withToken := pk.VerifyToken != nil
		io.Bool(&withToken)
		if !withToken {
			io.Int64(&pk.Salt)
			io.ByteSlice(&pk.MessageSignature)
			return
		}
	}
	io.ByteSlice(&pk.VerifyToken)
}

// CustomQueryAnswer answers a CustomQuery with the same MessageID.
type CustomQueryAnswer struct {
	MessageID int32
	// Successful is false when the client did not understand the query. Data is only sent when true.
	Successful bool
	Data       []byte
}

// Kind ...
func (*CustomQueryAnswer) Kind() Kind {
	return KindCustomQueryAnswer
}

// Marshal ...
func (pk *CustomQueryAnswer) Marshal(io protocol.IO) {
	io.Varint32(&pk.MessageID)
	io.Bool(&pk.Successful)
	if pk.Successful {
		io.Bytes(&pk.Data)
	}
}

// LoginAcknowledged confirms a GameProfile and moves the connection to the configuration state.
type LoginAcknowledged struct{}

// Kind ...
func (*LoginAcknowledged) Kind() Kind {
	return KindLoginAcknowledged
}

// Marshal ...
func (*LoginAcknowledged) Marshal(protocol.IO) {}

// LoginDisconnect closes the connection during login. Reason is JSON text in every version.
type LoginDisconnect struct {
	Reason string
}

// Kind ...
func (*LoginDisconnect) Kind() Kind {
	return KindLoginDisconnect
}

// Marshal ...
func (pk *LoginDisconnect) Marshal(io protocol.IO) {
	io.String(&pk.Reason)
}

// EncryptionRequest asks the client to enable encryption. PublicKey is the DER encoded RSA key of
// the server.
type EncryptionRequest struct {
	ServerID    string
	PublicKey   []byte
	VerifyToken []byte
}

// Kind ...
func (*EncryptionRequest) Kind() Kind {
	return KindEncryptionRequest
}

// Marshal ...
func (pk *EncryptionRequest) Marshal(io protocol.IO) {
	io.String(&pk.ServerID)
	io.ByteSlice(&pk.PublicKey)
	io.ByteSlice(&pk.VerifyToken)
}

// GameProfile completes the login.
type GameProfile struct {
	UUID     uuid.UUID
	Username string
	// Properties are sent from 1.19 on.
	Properties []Property
}

// Property is a signed profile property such as the skin texture.
type Property struct {
	Name      string
	Value     string
	Signed    bool
	Signature string
}

// Kind ...
func (*GameProfile) Kind() Kind {
	return KindGameProfile
}

// Marshal ...
func (pk *GameProfile) Marshal(io protocol.IO) {
	if io.Version() >= protocol.V1_16 {
		io.UUID(&pk.UUID)
	} else {
		protocol.UUIDString(io, &pk.UUID)
	}
	io.String(&pk.Username)
	if io.Version() >= protocol.V1_19 {
		protocol.Slice(io, &pk.Properties, marshalProperty)
	}
}

func marshalProperty(io protocol.IO, x *Property) {
	io.String(&x.Name)
	io.String(&x.Value)
	io.Bool(&x.Signed)
	if x.Signed {
		io.String(&x.Signature)
	}
}

// LoginCompression enables compression for frames of Threshold bytes or more. A negative threshold
// leaves compression disabled.
type LoginCompression struct {
	Threshold int32
}

// Kind ...
func (*LoginCompression) Kind() Kind {
	return KindLoginCompression
}

// Marshal ...
func (pk *LoginCompression) Marshal(io protocol.IO) {
	io.Varint32(&pk.Threshold)
}

// CustomQuery is a login plugin request.
type CustomQuery struct {
	MessageID int32
	Channel   string
	Data      []byte
}

// Kind ...
func (*CustomQuery) Kind() Kind {
	return KindCustomQuery
}

// Marshal ...
func (pk *CustomQuery) Marshal(io protocol.IO) {
	io.Varint32(&pk.MessageID)
	io.Identifier(&pk.Channel)
	io.Bytes(&pk.Data)
}
