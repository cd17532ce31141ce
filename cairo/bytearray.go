package cairo

import "github.com/NethermindEth/juno/core/felt"

const bytesPerWord = 31

// ByteArray mirrors Cairo's core::byte_array::ByteArray: full 31-byte
// words followed by a pending word holding the remainder.
type ByteArray struct {
	Data           []*felt.Felt
	PendingWord    *felt.Felt
	PendingWordLen uint64
}

func NewByteArray(s string) *ByteArray {
	b := []byte(s)
	full := len(b) / bytesPerWord

	data := make([]*felt.Felt, full)
	for i := range full {
		data[i] = new(felt.Felt).SetBytes(b[i*bytesPerWord : (i+1)*bytesPerWord])
	}
	rest := b[full*bytesPerWord:]

	return &ByteArray{
		Data:           data,
		PendingWord:    new(felt.Felt).SetBytes(rest),
		PendingWordLen: uint64(len(rest)),
	}
}

// Serialize returns the Cairo serialization:
// [len(data), data..., pending_word, pending_word_len].
func (a *ByteArray) Serialize() []*felt.Felt {
	out := make([]*felt.Felt, 0, len(a.Data)+3)
	out = append(out, new(felt.Felt).SetUint64(uint64(len(a.Data))))
	out = append(out, a.Data...)
	return append(out, a.PendingWord, new(felt.Felt).SetUint64(a.PendingWordLen))
}

func (a *ByteArray) String() string {
	out := make([]byte, 0, len(a.Data)*bytesPerWord+int(a.PendingWordLen))
	for _, word := range a.Data {
		b := word.Bytes()
		out = append(out, b[len(b)-bytesPerWord:]...)
	}
	if a.PendingWordLen > 0 {
		b := a.PendingWord.Bytes()
		out = append(out, b[len(b)-int(a.PendingWordLen):]...)
	}
	return string(out)
}
