package parser

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/extrame/ole2"
	"github.com/richardlehane/mscfb"
)

const (
	oleHeaderSize      = 512
	oleSectorSize      = 512
	oleShortSectorSize = 64
	oleEndOfChain      = 0xFFFFFFFE

	biffSST       = 0x00FC
	biffHyperlink = 0x01B8
)

var (
	errBrokenChain   = errors.New("compound file sector chain is broken")
	errNoWorkbook    = errors.New("workbook stream not found")
	errBadRecordSize = errors.New("record declares a length past the end of the workbook")
)

// checkXLS walks the compound-file structure the way the legacy decoder will
// and rejects files it cannot read safely. The decoder exits the process on a
// sector id outside the allocation table and loops forever on cyclic chains,
// so every chain it follows must end in ENDOFCHAIN inside the file.
func checkXLS(data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("compound file is malformed: %v", r)
		}
	}()

	h, err := checkOLEHeader(data)
	if err != nil {
		return err
	}
	sectors := uint32((len(data) - oleHeaderSize) / oleSectorSize)

	ole, err := ole2.Open(bytes.NewReader(data), "utf-8")
	if err != nil {
		return err
	}
	if err := checkChain(ole.SecID, h.Dirstart, sectors); err != nil {
		return fmt.Errorf("directory: %w", err)
	}
	dir, err := ole.ListDir()
	if err != nil {
		return err
	}

	var book, root *ole2.File
	for _, f := range dir {
		switch f.Name() {
		case "Workbook", "Book":
			book = f
		case "Root Entry":
			root = f
		}
	}
	if book == nil {
		return errNoWorkbook
	}

	if book.Size < h.Sectorcutoff {
		if root == nil {
			return errNoWorkbook
		}
		rootLen, err := chainLen(ole.SecID, root.Sstart, sectors)
		if err != nil {
			return fmt.Errorf("short stream container: %w", err)
		}
		if err := checkChain(ole.SSecID, book.Sstart, rootLen*(oleSectorSize/oleShortSectorSize)); err != nil {
			return fmt.Errorf("workbook: %w", err)
		}
	} else if err := checkChain(ole.SecID, book.Sstart, sectors); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}

	return scanWorkbookRecords(data)
}

// checkOLEHeader validates the fields ole2.Open trusts before it builds the
// allocation tables.
func checkOLEHeader(data []byte) (*ole2.Header, error) {
	if len(data) < oleHeaderSize {
		return nil, errors.New("compound file header is truncated")
	}
	h := new(ole2.Header)
	if err := binary.Read(bytes.NewReader(data[:oleHeaderSize]), binary.LittleEndian, h); err != nil {
		return nil, err
	}
	if h.Id[0] != 0xE011CFD0 || h.Id[1] != 0xE11AB1A1 || h.Byteorder != 0xFFFE {
		return nil, errors.New("not an OLE2 compound file")
	}
	if h.Lsectorb != 9 || h.Lssectorb != 6 {
		return nil, fmt.Errorf("unsupported sector size 2^%d", h.Lsectorb)
	}

	sectors := uint32((len(data) - oleHeaderSize) / oleSectorSize)
	inFile := func(id uint32) bool { return id < sectors }

	n := h.Cfat
	if n > uint32(len(h.Msat)) {
		n = uint32(len(h.Msat))
	}
	for i := uint32(0); i < n; i++ {
		if !inFile(h.Msat[i]) {
			return nil, fmt.Errorf("allocation table sector %d is outside the file", h.Msat[i])
		}
	}

	// Master allocation chain. ole2 stops only on ENDOFCHAIN.
	sid := h.Difstart
	for steps := uint32(0); sid != oleEndOfChain; steps++ {
		if !inFile(sid) || steps >= sectors {
			return nil, fmt.Errorf("master allocation table: %w", errBrokenChain)
		}
		off := oleHeaderSize + int(sid)*oleSectorSize
		sid = binary.LittleEndian.Uint32(data[off+oleSectorSize-4 : off+oleSectorSize])
	}

	if h.Sfatstart != oleEndOfChain && h.Csfat > 0 {
		if !inFile(h.Sfatstart) || h.Csfat > sectors {
			return nil, fmt.Errorf("short allocation table: %w", errBrokenChain)
		}
	}
	return h, nil
}

func checkChain(sat []uint32, start, limit uint32) error {
	_, err := chainLen(sat, start, limit)
	return err
}

// chainLen follows start through sat and returns the number of sectors in the
// chain. Every id must index sat and stay under limit, and a chain longer than
// sat itself is a cycle.
func chainLen(sat []uint32, start, limit uint32) (uint32, error) {
	var n uint32
	for id := start; id != oleEndOfChain; id = sat[id] {
		if int(id) >= len(sat) || id >= limit || int(n) >= len(sat) {
			return 0, errBrokenChain
		}
		n++
	}
	return n, nil
}

// scanWorkbookRecords reads the workbook stream with an independent decoder
// and checks the BIFF records whose declared lengths the legacy decoder
// allocates or loops over without bounds.
func scanWorkbookRecords(data []byte) error {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return err
	}

	var stream []byte
	for {
		f, err := doc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if f.Name != "Workbook" && f.Name != "Book" {
			continue
		}
		if stream, err = io.ReadAll(io.LimitReader(f, int64(len(data)))); err != nil {
			return err
		}
	}
	if stream == nil {
		return errNoWorkbook
	}
	return scanBIFF(stream)
}

func scanBIFF(stream []byte) error {
	total := uint64(len(stream))
	for off := 0; off+4 <= len(stream); {
		id := binary.LittleEndian.Uint16(stream[off:])
		size := int(binary.LittleEndian.Uint16(stream[off+2:]))
		body := off + 4

		switch id {
		case biffSST:
			if body+8 <= len(stream) && uint64(binary.LittleEndian.Uint32(stream[body+4:])) > total {
				return fmt.Errorf("shared strings: %w", errBadRecordSize)
			}
		case biffHyperlink:
			if err := checkHyperlink(stream, body); err != nil {
				return err
			}
		}
		off = body + size
	}
	return nil
}

// checkHyperlink repeats the decoder's reads for a HYPERLINK record starting
// at body. Reads past the end yield zero like they do in the decoder.
func checkHyperlink(stream []byte, body int) error {
	r := bytes.NewReader(stream)
	if _, err := r.Seek(int64(body), io.SeekStart); err != nil {
		return nil
	}
	total := uint64(len(stream))

	var rows [4]uint16
	if binary.Read(r, binary.LittleEndian, &rows) != nil {
		return nil
	}
	// The decoder iterates first..last with a uint16 counter.
	if rows[1] == 0xFFFF {
		return errors.New("hyperlink range reaches the last sheet row")
	}

	_, _ = r.Seek(20, io.SeekCurrent)
	var flag uint32
	_ = binary.Read(r, binary.LittleEndian, &flag)

	// skipCounted reads a uint32 count and skips count*unit bytes.
	skipCounted := func(unit uint64) error {
		var n uint32
		if binary.Read(r, binary.LittleEndian, &n) != nil {
			return nil
		}
		if uint64(n)*unit > total {
			return fmt.Errorf("hyperlink: %w", errBadRecordSize)
		}
		_, _ = r.Seek(int64(uint64(n)*unit), io.SeekCurrent)
		return nil
	}

	if flag&0x14 != 0 {
		if err := skipCounted(2); err != nil {
			return err
		}
	}
	if flag&0x80 != 0 {
		if err := skipCounted(2); err != nil {
			return err
		}
	}
	if flag&0x1 != 0 {
		var guid [2]uint64
		_ = binary.Read(r, binary.BigEndian, &guid)
		switch {
		case guid[0] == 0xE0C9EA79F9BACE11 && guid[1] == 0x8C8200AA004BA90B:
			if err := skipCounted(1); err != nil {
				return err
			}
		case guid[0] == 0x303000000000000 && guid[1] == 0xC000000000000046:
			_, _ = r.Seek(2, io.SeekCurrent)
			if err := skipCounted(1); err != nil {
				return err
			}
			_, _ = r.Seek(24, io.SeekCurrent)
			var extended uint32
			_ = binary.Read(r, binary.LittleEndian, &extended)
			if extended > 0 {
				var n uint32
				_ = binary.Read(r, binary.LittleEndian, &n)
				if uint64(n)+2 > total {
					return fmt.Errorf("hyperlink: %w", errBadRecordSize)
				}
				_, _ = r.Seek(2+int64(n/2+1)*2, io.SeekCurrent)
			}
		}
	}
	if flag&0x8 != 0 {
		if err := skipCounted(2); err != nil {
			return err
		}
	}
	return nil
}
