package protocol

import "strconv"

// Version is a protocol version number as sent in the handshake. Every version dependent layout
// decision is made by comparing against one of the constants below.
type Version int32

const (
	V1_12_2 Version = 340
	V1_13   Version = 393
	V1_13_1 Version = 401
	V1_13_2 Version = 404
	V1_14   Version = 477
	V1_14_1 Version = 480
	V1_14_2 Version = 485
	V1_14_3 Version = 490
	V1_14_4 Version = 498
	V1_15   Version = 573
	V1_15_1 Version = 575
	V1_15_2 Version = 578
	V1_16   Version = 735
	V1_16_1 Version = 736
	V1_16_2 Version = 751
	V1_16_3 Version = 753
	V1_16_4 Version = 754
	V1_17   Version = 755
	V1_17_1 Version = 756
	V1_18   Version = 757
	V1_18_2 Version = 758
	V1_19   Version = 759
	V1_19_1 Version = 760
	V1_19_3 Version = 761
	V1_19_4 Version = 762
	V1_20   Version = 763
	V1_20_2 Version = 764
	V1_20_3 Version = 765

	// Latest is the newest version supported.
	Latest = V1_20_3
)

var names = map[Version]string{
	V1_12_2: "1.12.2",
	V1_13:   "1.13",
	V1_13_1: "1.13.1",
	V1_13_2: "1.13.2",
	V1_14:   "1.14",
	V1_14_1: "1.14.1",
	V1_14_2: "1.14.2",
	V1_14_3: "1.14.3",
	V1_14_4: "1.14.4",
	V1_15:   "1.15",
	V1_15_1: "1.15.1",
	V1_15_2: "1.15.2",
	V1_16:   "1.16",
	V1_16_1: "1.16.1",
	V1_16_2: "1.16.2",
	V1_16_3: "1.16.3",
	V1_16_4: "1.16.4",
	V1_17:   "1.17",
	V1_17_1: "1.17.1",
	V1_18:   "1.18",
	V1_18_2: "1.18.2",
	V1_19:   "1.19",
	V1_19_1: "1.19.1",
	V1_19_3: "1.19.3",
	V1_19_4: "1.19.4",
	V1_20:   "1.20",
	V1_20_2: "1.20.2",
	V1_20_3: "1.20.3",
}

// Versions returns every supported version in ascending order.
func Versions() []Version {
	return []Version{
		V1_12_2, V1_13, V1_13_1, V1_13_2,
		V1_14, V1_14_1, V1_14_2, V1_14_3, V1_14_4,
		V1_15, V1_15_1, V1_15_2,
		V1_16, V1_16_1, V1_16_2, V1_16_3, V1_16_4,
		V1_17, V1_17_1, V1_18, V1_18_2,
		V1_19, V1_19_1, V1_19_3, V1_19_4,
		V1_20, V1_20_2, V1_20_3,
	}
}

// Supported reports whether v is one of the versions this module can speak.
func (v Version) Supported() bool {
	_, ok := names[v]
	return ok
}

// String ...
func (v Version) String() string {
	if name, ok := names[v]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(v)) + ")"
}

// aliases are game releases that reuse the protocol number of an earlier release.
var aliases = map[string]Version{
	"1.16.5": V1_16_4,
	"1.18.1": V1_18,
	"1.19.2": V1_19_1,
	"1.20.1": V1_20,
	"1.20.4": V1_20_3,
}

// ParseVersion resolves either a game version name ("1.20.2") or a raw protocol number ("764").
func ParseVersion(s string) (Version, bool) {
	for v, name := range names {
		if name == s {
			return v, true
		}
	}
	if v, ok := aliases[s]; ok {
		return v, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	v := Version(n)
	return v, v.Supported()
}
