package fst

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Container layout, all little-endian:
//
//	magic   5 bytes  "MFST\x00"
//	version uint16   currently 1
//	type    uint8    0 generic, 1 optimized-lookup
//	symbols uint32 count, then per symbol uint16 byte length + UTF-8 bytes;
//	        index 0 is the epsilon symbol and is stored empty
//	states  uint32 count, state 0 is the start state; per state:
//	        uint8 flags (bit 0: final), float32 final weight,
//	        uint32 arc count, then per arc
//	        uint32 in, uint32 out, uint32 target, float32 weight
//
// A container holds exactly one transducer; trailing bytes are an error.

var containerMagic = [5]byte{'M', 'F', 'S', 'T', 0}

const formatVersion = 1

const stateFinalBit = 1

// maxSymbolBytes bounds a single alphabet symbol; anything longer is taken as
// stream corruption rather than a legitimate symbol.
const maxSymbolBytes = 1 << 10

func readTransducer(r *bufio.Reader) (*Transducer, error) {
	var magic [5]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, ErrNotTransducer
	}
	if magic != containerMagic {
		return nil, ErrNotTransducer
	}

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil || version != formatVersion {
		return nil, ErrNotTransducer
	}
	var typ uint8
	if err := binary.Read(r, binary.LittleEndian, &typ); err != nil || typ > uint8(TypeOptimized) {
		return nil, ErrNotTransducer
	}

	alphabet, err := readAlphabet(r)
	if err != nil {
		return nil, err
	}

	t := &Transducer{
		typ:       Type(typ),
		alphabet:  alphabet,
		diacritic: make([]bool, len(alphabet)),
	}
	for id, sym := range alphabet {
		t.diacritic[id] = IsDiacritic(sym)
	}

	if err := readStates(r, t); err != nil {
		return nil, err
	}
	return t, nil
}

func readAlphabet(r *bufio.Reader) ([]string, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil || count == 0 {
		return nil, ErrNotTransducer
	}
	alphabet := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil || n > maxSymbolBytes {
			return nil, ErrNotTransducer
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, ErrNotTransducer
		}
		alphabet = append(alphabet, string(buf))
	}
	if alphabet[epsilonID] != "" {
		log.Debug("alphabet entry 0 is not epsilon")
		return nil, ErrNotTransducer
	}
	return alphabet, nil
}

func readStates(r *bufio.Reader, t *Transducer) error {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil || count == 0 {
		return ErrNotTransducer
	}
	symbols := uint32(len(t.alphabet))
	t.states = make([]state, count)
	for i := uint32(0); i < count; i++ {
		var flags uint8
		var finalWeight float32
		var arcCount uint32
		if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
			return ErrNotTransducer
		}
		if err := binary.Read(r, binary.LittleEndian, &finalWeight); err != nil {
			return ErrNotTransducer
		}
		if err := binary.Read(r, binary.LittleEndian, &arcCount); err != nil {
			return ErrNotTransducer
		}
		st := &t.states[i]
		st.final = flags&stateFinalBit != 0
		st.finalWeight = float64(finalWeight)
		for j := uint32(0); j < arcCount; j++ {
			var raw struct {
				In, Out, Target uint32
				Weight          float32
			}
			if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
				return ErrNotTransducer
			}
			if raw.In >= symbols || raw.Out >= symbols || raw.Target >= count {
				return ErrNotTransducer
			}
			a := arc{in: raw.In, out: raw.Out, target: raw.Target, weight: float64(raw.Weight)}
			// Optimized containers store the epsilon/consuming split
			// directly; generic ones keep a flat list that optimize()
			// splits after loading.
			if t.typ == TypeOptimized && (a.in == epsilonID || t.diacritic[a.in]) {
				st.eps = append(st.eps, a)
			} else {
				st.arcs = append(st.arcs, a)
			}
		}
	}
	return nil
}

// Write serializes the transducer to w in the given representation.
func (t *Transducer) Write(w io.Writer, typ Type) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(containerMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint16(formatVersion)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint8(typ)); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(t.alphabet))); err != nil {
		return err
	}
	for _, sym := range t.alphabet {
		if len(sym) > maxSymbolBytes {
			return fmt.Errorf("symbol too long: %d bytes", len(sym))
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(sym))); err != nil {
			return err
		}
		if _, err := bw.WriteString(sym); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(t.states))); err != nil {
		return err
	}
	for i := range t.states {
		st := &t.states[i]
		var flags uint8
		if st.final {
			flags |= stateFinalBit
		}
		if err := binary.Write(bw, binary.LittleEndian, flags); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, float32(st.finalWeight)); err != nil {
			return err
		}
		all := make([]arc, 0, len(st.eps)+len(st.arcs))
		all = append(all, st.eps...)
		all = append(all, st.arcs...)
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(all))); err != nil {
			return err
		}
		for _, a := range all {
			raw := struct {
				In, Out, Target uint32
				Weight          float32
			}{a.in, a.out, a.target, float32(a.weight)}
			if err := binary.Write(bw, binary.LittleEndian, raw); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteFile writes the transducer to a container file at path.
func (t *Transducer) WriteFile(path string, typ Type) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Write(f, typ); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Builder assembles a transducer in memory, for the compiler tool and for
// tests. Symbol ids are interned on first use; state 0, created implicitly,
// is the start state.
type Builder struct {
	alphabet []string
	index    map[string]uint32
	states   []state
}

// NewBuilder returns a Builder with the epsilon symbol registered and the
// start state created.
func NewBuilder() *Builder {
	b := &Builder{
		alphabet: []string{""},
		index:    map[string]uint32{"": epsilonID},
	}
	b.AddState()
	return b
}

// Symbol interns sym and returns its id. The empty string is epsilon.
func (b *Builder) Symbol(sym string) uint32 {
	if id, ok := b.index[sym]; ok {
		return id
	}
	id := uint32(len(b.alphabet))
	b.alphabet = append(b.alphabet, sym)
	b.index[sym] = id
	return id
}

// AddState appends a new non-final state and returns its id.
func (b *Builder) AddState() uint32 {
	b.states = append(b.states, state{})
	return uint32(len(b.states) - 1)
}

// SetFinal marks a state final with the given weight.
func (b *Builder) SetFinal(id uint32, weight float64) {
	b.states[id].final = true
	b.states[id].finalWeight = weight
}

// AddArc adds an arc from state from to state to, transducing symbol in to
// symbol out with the given weight. Empty strings denote epsilon.
func (b *Builder) AddArc(from uint32, in, out string, to uint32, weight float64) {
	b.states[from].arcs = append(b.states[from].arcs, arc{
		in:     b.Symbol(in),
		out:    b.Symbol(out),
		target: to,
		weight: weight,
	})
}

// Transducer finalizes the builder into a ready-to-use optimized transducer.
// The builder must not be reused afterwards.
func (b *Builder) Transducer() *Transducer {
	t := &Transducer{
		typ:       TypeGeneric,
		alphabet:  b.alphabet,
		states:    b.states,
		diacritic: make([]bool, len(b.alphabet)),
	}
	for id, sym := range t.alphabet {
		t.diacritic[id] = IsDiacritic(sym)
	}
	t.optimize()
	t.finish()
	return t
}
