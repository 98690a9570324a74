package device

// Onboarding payload generation for the pairing QR code. The payload packs
// the commissioning record into an 88-bit little-endian buffer and encodes it
// with the pairing spec's base38 alphabet.

const base38Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-."

// Discovery capability bits advertised in the payload.
const (
	CapSoftAP    = 1 << 0
	CapBLE       = 1 << 1
	CapOnNetwork = 1 << 2
)

// OnboardingPayload returns the "MT:"-prefixed QR payload for the given
// commissioning record. The bridge commissions over the existing network, so
// the payload advertises on-network discovery only.
func OnboardingPayload(vendorID, productID, discriminator, passcode int) string {
	return onboardingPayload(vendorID, productID, discriminator, passcode, CapOnNetwork)
}

func onboardingPayload(vendorID, productID, discriminator, passcode, capabilities int) string {
	var w bitWriter
	w.write(0, 3) // payload version
	w.write(uint32(vendorID), 16)
	w.write(uint32(productID), 16)
	w.write(0, 2) // standard commissioning flow
	w.write(uint32(capabilities), 8)
	w.write(uint32(discriminator), 12)
	w.write(uint32(passcode), 27)
	w.write(0, 4) // padding to a whole byte count

	return "MT:" + base38Encode(w.bytes())
}

// bitWriter packs values least-significant-bit first.
type bitWriter struct {
	buf []byte
	n   uint // bits written
}

func (w *bitWriter) write(v uint32, bits uint) {
	for i := uint(0); i < bits; i++ {
		if w.n%8 == 0 {
			w.buf = append(w.buf, 0)
		}
		if v&(1<<i) != 0 {
			w.buf[w.n/8] |= 1 << (w.n % 8)
		}
		w.n++
	}
}

func (w *bitWriter) bytes() []byte {
	return w.buf
}

// base38Encode encodes data in 3-byte little-endian groups of 5 characters;
// a 2-byte tail yields 4 characters and a 1-byte tail yields 2.
func base38Encode(data []byte) string {
	var out []byte
	for i := 0; i < len(data); i += 3 {
		rest := len(data) - i
		var v uint32
		var chars int
		switch {
		case rest >= 3:
			v = uint32(data[i]) | uint32(data[i+1])<<8 | uint32(data[i+2])<<16
			chars = 5
		case rest == 2:
			v = uint32(data[i]) | uint32(data[i+1])<<8
			chars = 4
		default:
			v = uint32(data[i])
			chars = 2
		}
		for j := 0; j < chars; j++ {
			out = append(out, base38Alphabet[v%38])
			v /= 38
		}
	}
	return string(out)
}
