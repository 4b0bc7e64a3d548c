package memory

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/marcinbor85/gohex"
)

// Fill value for addresses a HEX file leaves undefined (erased flash)
const gapFill = 0xFF

// Image - Contents to be sent to the device. Base is the address of the
// first byte, which is only meaningful for images loaded from Intel HEX.
type Image struct {
	Base uint32
	Data []byte
}

// Len - Returns the image size in bytes.
func (img *Image) Len() int {
	return len(img.Data)
}

// LoadBinary - Reads the whole file into memory, without looking at its contents
func LoadBinary(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &Image{Data: data}, nil
}

// LoadHexFile - Reads an Intel HEX file and flattens it into a binary image
func LoadHexFile(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer file.Close()

	img, err := ParseIntelHex(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return img, nil
}

// ParseIntelHex - Parses Intel HEX from r. Data segments are laid out from the
// lowest to the highest address; gaps between them are filled with 0xFF.
func ParseIntelHex(r io.Reader) (*Image, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, err
	}

	segments := mem.GetDataSegments()
	if len(segments) == 0 {
		return &Image{Data: []byte{}}, nil
	}

	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Address < segments[j].Address
	})

	base := segments[0].Address
	end := base
	for _, seg := range segments {
		segEnd := seg.Address + uint32(len(seg.Data))
		if segEnd > end {
			end = segEnd
		}
	}

	data := make([]byte, end-base)
	for i := range data {
		data[i] = gapFill
	}

	for _, seg := range segments {
		copy(data[seg.Address-base:], seg.Data)
	}

	return &Image{Base: base, Data: data}, nil
}
