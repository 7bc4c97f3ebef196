package session

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/cooldogedev/prism/packet"
	"github.com/cooldogedev/prism/protocol"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// loginServer plays a server that requires encryption and compression, runs the configuration
// phase and disconnects the player after one keep alive in the play state.
func loginServer(ts *testServer, key *rsa.PrivateKey, secrets chan<- []byte) error {
	defer ts.conn.Close()

	if _, err := ts.expect(protocol.StateHandshake, packet.KindIntention); err != nil {
		return err
	}
	start, err := ts.expect(protocol.StateLogin, packet.KindLoginStart)
	if err != nil {
		return err
	}
	if name := start.(*packet.LoginStart).Name; name != "prism" {
		return errors.Errorf("unexpected name %q", name)
	}

	publicKey, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return err
	}
	token := []byte{1, 2, 3, 4}
	if err := ts.write(&packet.EncryptionRequest{PublicKey: publicKey, VerifyToken: token}); err != nil {
		return err
	}
	pk, err := ts.expect(protocol.StateLogin, packet.KindEncryptionResponse)
	if err != nil {
		return err
	}
	resp := pk.(*packet.EncryptionResponse)
	secret, err := rsa.DecryptPKCS1v15(rand.Reader, key, resp.SharedSecret)
	if err != nil {
		return err
	}
	decryptedToken, err := rsa.DecryptPKCS1v15(rand.Reader, key, resp.VerifyToken)
	if err != nil {
		return err
	}
	if !bytes.Equal(decryptedToken, token) {
		return errors.Errorf("verify token mismatch: %x", decryptedToken)
	}
	secrets <- secret
	if err := ts.reader.ArmEncryption(secret, secret); err != nil {
		return err
	}
	if err := ts.writer.ArmEncryption(secret, secret); err != nil {
		return err
	}

	if err := ts.write(&packet.LoginCompression{Threshold: 256}); err != nil {
		return err
	}
	if err := ts.reader.ArmCompression(256); err != nil {
		return err
	}
	if err := ts.writer.ArmCompression(256); err != nil {
		return err
	}
	if err := ts.write(&packet.GameProfile{UUID: OfflineUUID("prism"), Username: "prism"}); err != nil {
		return err
	}
	if _, err := ts.expect(protocol.StateLogin, packet.KindLoginAcknowledged); err != nil {
		return err
	}

	if err := ts.write(&packet.ConfigCustomPayload{Channel: "minecraft:register", Data: []byte("prism:a\x00prism:b")}); err != nil {
		return err
	}
	if err := ts.write(&packet.ConfigKeepAlive{ID: 42}); err != nil {
		return err
	}
	pk, err = ts.expect(protocol.StateConfiguration, packet.KindConfigClientKeepAlive)
	if err != nil {
		return err
	}
	if id := pk.(*packet.ConfigClientKeepAlive).ID; id != 42 {
		return errors.Errorf("configuration keep alive answered with %d", id)
	}
	if err := ts.write(&packet.FinishConfiguration{}); err != nil {
		return err
	}
	if _, err := ts.expect(protocol.StateConfiguration, packet.KindClientFinishConfiguration); err != nil {
		return err
	}

	if err := ts.write(&packet.KeepAlive{ID: 7}); err != nil {
		return err
	}
	pk, err = ts.expect(protocol.StatePlay, packet.KindClientKeepAlive)
	if err != nil {
		return err
	}
	if id := pk.(*packet.ClientKeepAlive).ID; id != 7 {
		return errors.Errorf("keep alive answered with %d", id)
	}
	if err := ts.write(&packet.CustomPayload{Channel: "prism:a", Data: bytes.Repeat([]byte{'x'}, 1000)}); err != nil {
		return err
	}
	if err := ts.write(&packet.Disconnect{Reason: protocol.Chat{Text: "bye"}}); err != nil {
		return err
	}
	ts.drain()
	return nil
}

func TestLoginEncryptedCompressed(t *testing.T) {
	ctx := testContext(t)
	addr, conns := listen(t)
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatal(err)
	}

	secrets := make(chan []byte, 1)
	serverErr := make(chan error, 1)
	go func() {
		conn := <-conns
		ts, err := newTestServer(conn, protocol.V1_20_3)
		if err != nil {
			serverErr <- err
			return
		}
		serverErr <- loginServer(ts, key, secrets)
	}()

	var (
		mu     sync.Mutex
		hashes []string
	)
	auth := AuthenticatorFunc(func(_ context.Context, serverHash string) error {
		mu.Lock()
		defer mu.Unlock()
		hashes = append(hashes, serverHash)
		return nil
	})
	metrics := NewMetrics(prometheus.NewRegistry())

	s, err := Connect(ctx, addr,
		VersionOption(protocol.V1_20_3),
		LoggerOption(discardLogger()),
		AuthenticatorOption(auth),
		MetricsOption(metrics),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Handshake("localhost", 25565, protocol.StateLogin); err != nil {
		t.Fatal(err)
	}
	if err := s.Send(&packet.LoginStart{Name: "prism", PlayerUUID: OfflineUUID("prism")}); err != nil {
		t.Fatal(err)
	}
	if err := s.WaitState(ctx, protocol.StatePlay); err != nil {
		t.Fatal(err)
	}

	kinds, err := receiveAll(ctx, s)
	var disconnect *DisconnectError
	if !errors.As(err, &disconnect) || disconnect.Reason != "bye" || !errors.Is(err, ErrClosed) {
		t.Fatalf("expected disconnect error, got %v", err)
	}
	want := []packet.Kind{
		packet.KindEncryptionRequest,
		packet.KindLoginCompression,
		packet.KindGameProfile,
		packet.KindConfigCustomPayload,
		packet.KindConfigKeepAlive,
		packet.KindFinishConfiguration,
		packet.KindKeepAlive,
		packet.KindCustomPayload,
		packet.KindDisconnect,
	}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("received %v, want %v", kinds, want)
	}
	if _, err := s.Receive(ctx); err != ErrClosed {
		t.Fatalf("expected ErrClosed after the terminal error, got %v", err)
	}
	if err := <-serverErr; err != nil {
		t.Fatal(err)
	}

	secret := <-secrets
	publicKey, _ := x509.MarshalPKIXPublicKey(&key.PublicKey)
	mu.Lock()
	defer mu.Unlock()
	if len(hashes) != 1 || hashes[0] != ServerHash("", secret, publicKey) {
		t.Fatalf("unexpected server hashes %v", hashes)
	}
	if !s.Tracker().HasChannel("prism:a") || !s.Tracker().HasChannel("prism:b") {
		t.Fatalf("registered channels: %v", s.Tracker().Channels())
	}
	if s.State() != protocol.StateClosed {
		t.Fatalf("state after disconnect: %v", s.State())
	}
	// Intention, login start, encryption response, login acknowledged and the three responses.
	if n := testutil.ToFloat64(metrics.framesWritten); n != 7 {
		t.Fatalf("frames written: %v", n)
	}
	if n := testutil.ToFloat64(metrics.framesRead); n != 9 {
		t.Fatalf("frames read: %v", n)
	}
}

func TestEncryptionWithoutAuthenticator(t *testing.T) {
	ctx := testContext(t)
	s, ts := pipe(t, protocol.V1_20_3)
	handshake(t, s, ts, protocol.StateLogin)

	go func() {
		_ = ts.write(&packet.EncryptionRequest{PublicKey: []byte{1}, VerifyToken: []byte{2}})
	}()
	if _, err := receiveAll(ctx, s); !errors.Is(err, ErrNoAuthenticator) {
		t.Fatalf("expected ErrNoAuthenticator, got %v", err)
	}
}

func TestUnknownIDs(t *testing.T) {
	for _, strict := range []bool{false, true} {
		ctx := testContext(t)
		s, ts := pipe(t, protocol.V1_12_2, StrictOption(strict))
		handshake(t, s, ts, protocol.StateLogin)

		go func() {
			_ = ts.writeRaw(0x7f, []byte{1, 2, 3})
			_ = ts.writeRaw(0x7f, nil)
			_ = ts.write(&packet.LoginDisconnect{Reason: `{"text":"bye"}`})
		}()
		kinds, err := receiveAll(ctx, s)

		if strict {
			var unknown *packet.UnknownIDError
			if !errors.As(err, &unknown) || unknown.ID != 0x7f || len(kinds) != 0 {
				t.Fatalf("strict: expected unknown id error, got %v after %v", err, kinds)
			}
			continue
		}
		var disconnect *DisconnectError
		if !errors.As(err, &disconnect) || disconnect.Reason != `{"text":"bye"}` {
			t.Fatalf("lenient: expected disconnect, got %v", err)
		}
		if !reflect.DeepEqual(kinds, []packet.Kind{packet.KindLoginDisconnect}) {
			t.Fatalf("lenient: received %v", kinds)
		}
		if ids := s.Tracker().UnknownIDs(); !reflect.DeepEqual(ids, []int32{0x7f}) {
			t.Fatalf("lenient: unknown ids %v", ids)
		}
	}
}

func TestMalformedFrameIsFatal(t *testing.T) {
	ctx := testContext(t)
	s, ts := pipe(t, protocol.V1_20_3)
	handshake(t, s, ts, protocol.StateLogin)

	go func() {
		// A login compression message with a truncated threshold.
		_ = ts.writeRaw(0x03, []byte{0x80})
	}()
	if _, err := receiveAll(ctx, s); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected truncated error, got %v", err)
	}
}

func TestIllegalState(t *testing.T) {
	s, ts := pipe(t, protocol.V1_20_3)

	for _, pk := range []packet.Packet{
		&packet.LoginStart{Name: "prism"},
		&packet.KeepAlive{ID: 1},
		&packet.ClientKeepAlive{ID: 1},
		&packet.Intention{NextState: 3},
	} {
		if err := s.Send(pk); !errors.Is(err, ErrIllegalState) {
			t.Fatalf("%v: expected ErrIllegalState, got %v", pk.Kind(), err)
		}
	}
	if err := s.Handshake("localhost", 25565, protocol.StatePlay); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected ErrIllegalState, got %v", err)
	}
	if err := s.EnableEncryption(&packet.EncryptionResponse{}, make([]byte, 16)); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected ErrIllegalState, got %v", err)
	}
	if s.State() != protocol.StateHandshake {
		t.Fatalf("state changed to %v", s.State())
	}

	// Nothing was written: the first frame the server reads is the handshake.
	handshake(t, s, ts, protocol.StateStatus)
	if s.State() != protocol.StateStatus {
		t.Fatalf("state after handshake: %v", s.State())
	}
}

func TestBacklog(t *testing.T) {
	ctx := testContext(t)
	s, ts := pipe(t, protocol.V1_20_3, QueueOption(1, time.Millisecond*50), ReadTimeoutOption(0))
	handshake(t, s, ts, protocol.StateStatus)

	go func() {
		for i := 0; i < 3; i++ {
			if err := ts.write(&packet.PongResponse{Time: int64(i)}); err != nil {
				return
			}
		}
	}()
	select {
	case <-s.Closed():
	case <-ctx.Done():
		t.Fatal("session did not close")
	}

	pk, err := s.Receive(ctx)
	if err != nil {
		t.Fatalf("queued message lost: %v", err)
	}
	if pong, ok := pk.(*packet.PongResponse); !ok || pong.Time != 0 {
		t.Fatalf("unexpected message %#v", pk)
	}
	if _, err := s.Receive(ctx); !errors.Is(err, ErrBacklog) {
		t.Fatalf("expected ErrBacklog, got %v", err)
	}
	if _, err := s.Receive(ctx); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestStalled(t *testing.T) {
	ctx := testContext(t)
	s, _ := pipe(t, protocol.V1_20_3, ReadTimeoutOption(time.Millisecond*50))

	if err := s.WaitState(ctx, protocol.StatePlay); !errors.Is(err, ErrStalled) {
		t.Fatalf("expected ErrStalled, got %v", err)
	}
	if !errors.Is(s.Err(), ErrStalled) {
		t.Fatalf("terminal error %v", s.Err())
	}
}

func TestClose(t *testing.T) {
	ctx := testContext(t)
	s, _ := pipe(t, protocol.V1_20_3)
	if err := s.Err(); err != nil {
		t.Fatalf("open session has error %v", err)
	}
	_ = s.Close()

	if _, err := s.Receive(ctx); err != ErrClosed {
		t.Fatalf("receive: %v", err)
	}
	if err := s.Handshake("localhost", 25565, protocol.StateLogin); err != ErrClosed {
		t.Fatalf("send: %v", err)
	}
	if err := s.WaitState(ctx, protocol.StateLogin); err != ErrClosed {
		t.Fatalf("wait: %v", err)
	}
	if s.State() != protocol.StateClosed {
		t.Fatalf("state: %v", s.State())
	}
}

type dropProcessor struct {
	NopProcessor
	kind packet.Kind
}

func (p dropProcessor) ProcessIncoming(ctx *Context, pk packet.Packet) {
	if pk.Kind() == p.kind {
		ctx.Cancel()
	}
}

func TestProcessorCancelsIncoming(t *testing.T) {
	ctx := testContext(t)
	s, ts := pipe(t, protocol.V1_20_3, ProcessorOption(dropProcessor{kind: packet.KindPongResponse}))
	handshake(t, s, ts, protocol.StateStatus)

	go func() {
		_ = ts.write(&packet.PongResponse{Time: 1})
		_ = ts.write(&packet.StatusResponse{Response: "{}"})
	}()
	pk, err := s.Receive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if pk.Kind() != packet.KindStatusResponse {
		t.Fatalf("received %v", pk.Kind())
	}
}

func TestStartConfiguration(t *testing.T) {
	ctx := testContext(t)
	s, ts := pipe(t, protocol.V1_20_2)
	handshake(t, s, ts, protocol.StateLogin)

	errc := make(chan error, 1)
	go func() {
		errc <- func() error {
			if err := ts.write(&packet.GameProfile{UUID: uuid.New(), Username: "prism"}); err != nil {
				return err
			}
			if _, err := ts.expect(protocol.StateLogin, packet.KindLoginAcknowledged); err != nil {
				return err
			}
			if err := ts.write(&packet.FinishConfiguration{}); err != nil {
				return err
			}
			if _, err := ts.expect(protocol.StateConfiguration, packet.KindClientFinishConfiguration); err != nil {
				return err
			}
			if err := ts.write(&packet.StartConfiguration{}); err != nil {
				return err
			}
			_, err := ts.expect(protocol.StatePlay, packet.KindConfigurationAcknowledged)
			return err
		}()
	}()
	if err := <-errc; err != nil {
		t.Fatal(err)
	}
	if err := s.WaitState(ctx, protocol.StateConfiguration); err != nil {
		t.Fatal(err)
	}
}

func TestGameProfileEntersPlayBeforeConfiguration(t *testing.T) {
	ctx := testContext(t)
	s, ts := pipe(t, protocol.V1_20)
	handshake(t, s, ts, protocol.StateLogin)

	go func() {
		_ = ts.write(&packet.GameProfile{UUID: uuid.New(), Username: "prism"})
	}()
	if err := s.WaitState(ctx, protocol.StatePlay); err != nil {
		t.Fatal(err)
	}
}

func TestServerClose(t *testing.T) {
	ctx := testContext(t)
	s, ts := pipe(t, protocol.V1_20_3)
	handshake(t, s, ts, protocol.StateStatus)

	_ = ts.conn.Close()
	if _, err := s.Receive(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := s.Receive(ctx); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if s.State() != protocol.StateClosed {
		t.Fatalf("state: %v", s.State())
	}
}

func TestPlayCompressionAndUnknownID(t *testing.T) {
	for _, strict := range []bool{false, true} {
		ctx := testContext(t)
		s, ts := pipe(t, protocol.V1_20, StrictOption(strict), AutoRespondOption(false))
		handshake(t, s, ts, protocol.StateLogin)

		go func() {
			_ = ts.write(&packet.LoginCompression{Threshold: 256})
			_ = ts.reader.ArmCompression(256)
			_ = ts.writer.ArmCompression(256)
			_ = ts.write(&packet.GameProfile{UUID: uuid.New(), Username: "prism"})
			_ = ts.write(&packet.CustomPayload{Channel: "prism:big", Data: bytes.Repeat([]byte{'x'}, 300)})
			_ = ts.write(&packet.CustomPayload{Channel: "prism:small", Data: bytes.Repeat([]byte{'y'}, 50)})
			_ = ts.writeRaw(0xff, []byte{1, 2})
			_ = ts.write(&packet.KeepAlive{ID: 9})
		}()

		if strict {
			kinds, err := receiveAll(ctx, s)
			if !errors.Is(err, packet.ErrUnknownID) {
				t.Fatalf("strict: expected unknown id error, got %v", err)
			}
			want := []packet.Kind{packet.KindLoginCompression, packet.KindGameProfile, packet.KindCustomPayload, packet.KindCustomPayload}
			if !reflect.DeepEqual(kinds, want) {
				t.Fatalf("strict: received %v", kinds)
			}
			if s.State() != protocol.StateClosed {
				t.Fatalf("strict: state %v", s.State())
			}
			continue
		}

		var sizes []int
		var kinds []packet.Kind
		for len(kinds) < 5 {
			pk, err := s.Receive(ctx)
			if err != nil {
				t.Fatalf("lenient: %v after %v", err, kinds)
			}
			kinds = append(kinds, pk.Kind())
			if payload, ok := pk.(*packet.CustomPayload); ok {
				sizes = append(sizes, len(payload.Data))
			}
		}
		want := []packet.Kind{packet.KindLoginCompression, packet.KindGameProfile, packet.KindCustomPayload, packet.KindCustomPayload, packet.KindKeepAlive}
		if !reflect.DeepEqual(kinds, want) {
			t.Fatalf("lenient: received %v", kinds)
		}
		if !reflect.DeepEqual(sizes, []int{300, 50}) {
			t.Fatalf("lenient: payload sizes %v", sizes)
		}
		if s.State() != protocol.StatePlay {
			t.Fatalf("lenient: state %v", s.State())
		}
		if ids := s.Tracker().UnknownIDs(); !reflect.DeepEqual(ids, []int32{0xff}) {
			t.Fatalf("lenient: unknown ids %v", ids)
		}
		_ = s.Close()
	}
}

type dropOutgoing map[packet.Kind]bool

func (dropOutgoing) ProcessIncoming(*Context, packet.Packet) {}

func (d dropOutgoing) ProcessOutgoing(ctx *Context, pk packet.Packet) {
	if d[pk.Kind()] {
		ctx.Cancel()
	}
}

func TestProcessorCannotCancelAcknowledgements(t *testing.T) {
	ctx := testContext(t)
	s, ts := pipe(t, protocol.V1_20_2, ProcessorOption(dropOutgoing{
		packet.KindEncryptionResponse:        true,
		packet.KindLoginAcknowledged:         true,
		packet.KindClientFinishConfiguration: true,
		packet.KindClientKeepAlive:           true,
	}))
	handshake(t, s, ts, protocol.StateLogin)

	secret := bytes.Repeat([]byte{7}, 16)
	errc := make(chan error, 1)
	go func() {
		errc <- func() error {
			if _, err := ts.expect(protocol.StateLogin, packet.KindEncryptionResponse); err != nil {
				return err
			}
			if err := ts.reader.ArmEncryption(secret, secret); err != nil {
				return err
			}
			if err := ts.writer.ArmEncryption(secret, secret); err != nil {
				return err
			}
			if err := ts.write(&packet.GameProfile{UUID: uuid.New(), Username: "prism"}); err != nil {
				return err
			}
			if _, err := ts.expect(protocol.StateLogin, packet.KindLoginAcknowledged); err != nil {
				return err
			}
			if err := ts.write(&packet.FinishConfiguration{}); err != nil {
				return err
			}
			if _, err := ts.expect(protocol.StateConfiguration, packet.KindClientFinishConfiguration); err != nil {
				return err
			}
			if err := ts.write(&packet.KeepAlive{ID: 9}); err != nil {
				return err
			}
			// The keep alive answer was dropped, so the next frame is the pong.
			pk, err := ts.expect(protocol.StatePlay, packet.KindPong)
			if err != nil {
				return err
			}
			if id := pk.(*packet.Pong).ID; id != 5 {
				return errors.Errorf("pong with id %d", id)
			}
			return nil
		}()
	}()

	resp := &packet.EncryptionResponse{SharedSecret: []byte{1}, VerifyToken: []byte{2}}
	if err := s.EnableEncryption(resp, secret); err != nil {
		t.Fatal(err)
	}
	for {
		pk, err := s.Receive(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if pk.Kind() == packet.KindKeepAlive {
			break
		}
	}
	if s.State() != protocol.StatePlay {
		t.Fatalf("state: %v", s.State())
	}
	if err := s.Send(&packet.Pong{ID: 5}); err != nil {
		t.Fatal(err)
	}
	if err := <-errc; err != nil {
		t.Fatal(err)
	}
}

func TestWaitStateMissingFromVersion(t *testing.T) {
	ctx := testContext(t)
	s, _ := pipe(t, protocol.V1_20)
	if err := s.WaitState(ctx, protocol.StateConfiguration); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected ErrIllegalState, got %v", err)
	}
}
