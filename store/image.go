package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// ---------------------------------------------------------------------------
// Image serialization: whole-state snapshots
// ---------------------------------------------------------------------------

// ImageMagic identifies a cora image.
const ImageMagic = "CORA"

// Image format version.
// v1: initial format
const ImageVersion uint32 = 1

// cborEncMode encodes images canonically so identical states produce
// identical bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("store: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// image is the on-disk form of a State. Handles are table indices, so
// every handle a host saved alongside the image is still valid after a
// load. Natives are host code and are never serialized; hosts re-register
// them after loading.
type image struct {
	Magic   string       `cbor:"magic"`
	Version uint32       `cbor:"version"`
	Used    int          `cbor:"used"`
	Memory  []byte       `cbor:"memory"`
	Objects []imageEntry `cbor:"objects"`
	Free    []imageSpan  `cbor:"free"`
	Globals uint64       `cbor:"globals"`
}

type imageEntry struct {
	Off  int   `cbor:"o"`
	Size int   `cbor:"s"`
	Tag  uint8 `cbor:"t"`
	Live bool  `cbor:"l"`
}

type imageSpan struct {
	Off  int `cbor:"o"`
	Size int `cbor:"s"`
}

// WriteImage serializes st to image bytes.
func WriteImage(st *State) ([]byte, error) {
	img := image{
		Magic:   ImageMagic,
		Version: ImageVersion,
		Used:    st.arena.used,
		Memory:  st.arena.mem[:st.arena.used],
		Globals: uint64(st.globals),
	}
	img.Objects = make([]imageEntry, len(st.objects))
	for i, e := range st.objects {
		img.Objects[i] = imageEntry{Off: e.off, Size: e.size, Tag: uint8(e.tag), Live: e.live}
	}
	img.Free = make([]imageSpan, len(st.free))
	for i, f := range st.free {
		img.Free[i] = imageSpan{Off: f.off, Size: f.size}
	}

	data, err := cborEncMode.Marshal(&img)
	if err != nil {
		return nil, fmt.Errorf("store: marshal image: %w", err)
	}
	return data, nil
}

// LoadImage rebuilds a State from image bytes, backed by the given
// grower. The loaded state has an empty native registry.
func LoadImage(data []byte, grow Grower) (*State, error) {
	if grow == nil {
		return nil, errors.New("store: grower must be set before use")
	}
	var img image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("store: unmarshal image: %w", err)
	}
	if img.Magic != ImageMagic {
		return nil, fmt.Errorf("store: not a cora image (magic %q)", img.Magic)
	}
	if img.Version != ImageVersion {
		return nil, fmt.Errorf("store: unsupported image version %d", img.Version)
	}
	if img.Used != len(img.Memory) {
		return nil, fmt.Errorf("store: corrupt image: used %d, memory %d bytes", img.Used, len(img.Memory))
	}

	st := &State{
		arena:   arena{grow: grow},
		natives: make(map[string]NativeFunc),
	}
	if img.Used > 0 {
		if !st.arena.expand(img.Used) {
			return nil, ErrNoMemory
		}
		copy(st.arena.mem, img.Memory)
	}
	st.arena.used = img.Used

	st.objects = make([]entry, len(img.Objects))
	for i, e := range img.Objects {
		if e.Live && e.Off+e.Size > img.Used {
			return nil, fmt.Errorf("store: corrupt image: object %d outside memory", i)
		}
		st.objects[i] = entry{off: e.Off, size: e.Size, tag: Type(e.Tag), live: e.Live}
	}
	st.free = make([]span, len(img.Free))
	for i, f := range img.Free {
		st.free[i] = span{off: f.Off, size: f.Size}
	}

	st.globals = Handle(img.Globals)
	if _, err := st.typedPayload(st.globals, TypeMap); err != nil {
		return nil, fmt.Errorf("store: corrupt image: bad globals handle: %w", err)
	}
	return st, nil
}

// SaveImage writes st's image to a file.
func (st *State) SaveImage(path string) error {
	data, err := WriteImage(st)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// OpenImage loads a state image from a file.
func OpenImage(path string, grow Grower) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: cannot read image %s: %w", path, err)
	}
	return LoadImage(data, grow)
}
