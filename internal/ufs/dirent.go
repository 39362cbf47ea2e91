package ufs

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

func encodeDirEntry(e DirEntry) []byte {
	var buf bytes.Buffer
	buf.Write(e.Name[:])
	_ = binary.Write(&buf, binary.LittleEndian, e.Inum)
	return buf.Bytes()
}

func decodeDirEntry(data []byte) (DirEntry, error) {
	var e DirEntry
	copy(e.Name[:], data[:DirEntNameSize])
	if err := binary.Read(bytes.NewReader(data[DirEntNameSize:]), binary.LittleEndian, &e.Inum); err != nil {
		return DirEntry{}, fmt.Errorf("ufs: decoding dir entry inum: %w", err)
	}
	return e, nil
}

// encodeDirBlock packs up to EntriesPerBlock entries into one
// BlockSize-sized buffer, padding any remainder with vacant entries.
func encodeDirBlock(entries []DirEntry) []byte {
	buf := make([]byte, BlockSize)
	for i := 0; i < EntriesPerBlock; i++ {
		var e DirEntry
		if i < len(entries) {
			e = entries[i]
		} else {
			e = VacantDirEntry()
		}
		copy(buf[i*DirEntrySize:(i+1)*DirEntrySize], encodeDirEntry(e))
	}
	return buf
}

// DecodeRawEntry decodes one DirEntrySize-sized slice into a DirEntry,
// for callers (like the gateway and the reporting utilities) that parse
// raw directory data returned by Read rather than going through the
// engine's own block-at-a-time decoding.
func DecodeRawEntry(data []byte) (DirEntry, error) {
	return decodeDirEntry(data)
}

// decodeDirBlock unpacks one BlockSize-sized buffer into
// EntriesPerBlock directory entries.
func decodeDirBlock(buf []byte) ([]DirEntry, error) {
	entries := make([]DirEntry, EntriesPerBlock)
	for i := 0; i < EntriesPerBlock; i++ {
		e, err := decodeDirEntry(buf[i*DirEntrySize : (i+1)*DirEntrySize])
		if err != nil {
			return nil, err
		}
		entries[i] = e
	}
	return entries, nil
}
