package packet

import "github.com/cooldogedev/prism/protocol"

// idRange assigns id to a kind for every supported version in [from, to].
type idRange struct {
	from, to protocol.Version
	id       uint32
}

// idTable holds the numeric id of every kind per protocol version. Versions are protocol numbers:
// 340 is 1.12.2, 765 is 1.20.3.
var idTable = [kindCount][]idRange{
	KindIntention: {{340, 765, 0x00}},

	KindStatusRequest:  {{340, 765, 0x00}},
	KindPingRequest:    {{340, 765, 0x01}},
	KindStatusResponse: {{340, 765, 0x00}},
	KindPongResponse:   {{340, 765, 0x01}},

	KindLoginStart:         {{340, 765, 0x00}},
	KindEncryptionResponse: {{340, 765, 0x01}},
	KindCustomQueryAnswer:  {{393, 765, 0x02}},
	KindLoginAcknowledged:  {{764, 765, 0x03}},
	KindLoginDisconnect:    {{340, 765, 0x00}},
	KindEncryptionRequest:  {{340, 765, 0x01}},
	KindGameProfile:        {{340, 765, 0x02}},
	KindLoginCompression:   {{340, 765, 0x03}},
	KindCustomQuery:        {{393, 765, 0x04}},

	KindConfigCustomPayload:       {{764, 765, 0x00}},
	KindConfigDisconnect:          {{764, 765, 0x01}},
	KindFinishConfiguration:       {{764, 765, 0x02}},
	KindConfigKeepAlive:           {{764, 765, 0x03}},
	KindConfigPing:                {{764, 765, 0x04}},
	KindRegistryData:              {{764, 765, 0x05}},
	KindFeatureFlags:              {{764, 764, 0x07}, {765, 765, 0x08}},
	KindClientInformation:         {{764, 765, 0x00}},
	KindConfigClientCustomPayload: {{764, 765, 0x01}},
	KindClientFinishConfiguration: {{764, 765, 0x02}},
	KindConfigClientKeepAlive:     {{764, 765, 0x03}},
	KindConfigPong:                {{764, 765, 0x04}},

	KindAnimate: {
		{340, 578, 0x06}, {735, 754, 0x05}, {755, 758, 0x06}, {759, 761, 0x03}, {762, 763, 0x04},
		{764, 765, 0x03},
	},
	KindDisconnect: {
		{340, 340, 0x1a}, {393, 404, 0x1b}, {477, 498, 0x1a}, {573, 578, 0x1b}, {735, 736, 0x1a},
		{751, 754, 0x19}, {755, 758, 0x1a}, {759, 759, 0x17}, {760, 760, 0x19}, {761, 761, 0x17},
		{762, 763, 0x1a}, {764, 765, 0x1b},
	},
	KindKeepAlive: {
		{340, 340, 0x1f}, {393, 404, 0x21}, {477, 498, 0x20}, {573, 578, 0x21}, {735, 736, 0x20},
		{751, 754, 0x1f}, {755, 758, 0x21}, {759, 759, 0x1e}, {760, 760, 0x20}, {761, 761, 0x1f},
		{762, 763, 0x23}, {764, 765, 0x24},
	},
	KindPing: {
		{755, 758, 0x30}, {759, 759, 0x2d}, {760, 760, 0x2f}, {761, 761, 0x2e}, {762, 763, 0x32},
		{764, 765, 0x33},
	},
	KindSetDefaultSpawnPosition: {
		{340, 340, 0x46}, {393, 404, 0x49}, {477, 498, 0x4d}, {573, 578, 0x4e}, {735, 754, 0x42},
		{755, 758, 0x4b}, {759, 759, 0x4a}, {760, 760, 0x4d}, {761, 761, 0x4c}, {762, 763, 0x50},
		{764, 764, 0x52}, {765, 765, 0x54},
	},
	KindSetTitleText: {
		{755, 756, 0x59}, {757, 759, 0x5a}, {760, 760, 0x5d}, {761, 761, 0x5b}, {762, 763, 0x5f},
		{764, 764, 0x61}, {765, 765, 0x63},
	},
	KindCustomPayload: {
		{340, 340, 0x18}, {393, 404, 0x19}, {477, 498, 0x18}, {573, 578, 0x19}, {735, 736, 0x18},
		{751, 754, 0x17}, {755, 758, 0x18}, {759, 759, 0x15}, {760, 760, 0x16}, {761, 761, 0x15},
		{762, 763, 0x17}, {764, 765, 0x18},
	},
	KindStartConfiguration: {{764, 764, 0x65}, {765, 765, 0x67}},

	KindClientKeepAlive: {
		{340, 340, 0x0b}, {393, 404, 0x0e}, {477, 578, 0x0f}, {735, 754, 0x10}, {755, 758, 0x0f},
		{759, 759, 0x11}, {760, 760, 0x12}, {761, 761, 0x11}, {762, 763, 0x12}, {764, 764, 0x14},
		{765, 765, 0x15},
	},
	KindPong: {
		{755, 758, 0x1d}, {759, 759, 0x1f}, {760, 760, 0x20}, {761, 761, 0x1f}, {762, 763, 0x20},
		{764, 764, 0x23}, {765, 765, 0x24},
	},
	KindClientCustomPayload: {
		{340, 340, 0x09}, {393, 404, 0x0a}, {477, 754, 0x0b}, {755, 758, 0x0a}, {759, 759, 0x0c},
		{760, 760, 0x0d}, {761, 761, 0x0c}, {762, 763, 0x0d}, {764, 764, 0x0f}, {765, 765, 0x10},
	},
	KindSwing: {
		{340, 340, 0x1d}, {393, 404, 0x27}, {477, 578, 0x2a}, {735, 736, 0x2b}, {751, 758, 0x2c},
		{759, 759, 0x2e}, {760, 763, 0x2f}, {764, 765, 0x33},
	},
	KindMovePlayerPos: {
		{340, 340, 0x0d}, {393, 404, 0x10}, {477, 578, 0x11}, {735, 754, 0x12}, {755, 758, 0x11},
		{759, 759, 0x13}, {760, 760, 0x14}, {761, 761, 0x13}, {762, 763, 0x14}, {764, 764, 0x16},
		{765, 765, 0x17},
	},
	KindConfigurationAcknowledged: {{764, 765, 0x0b}},
}

// lookupID returns the id of k in version v.
func lookupID(k Kind, v protocol.Version) (uint32, bool) {
	for _, r := range idTable[k] {
		if v >= r.from && v <= r.to {
			return r.id, true
		}
	}
	return 0, false
}
