package grf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/Faultbox/gridpath/pkg/encoding"
)

// Write builds a version 0x200 archive holding files, keyed by archive path.
// Entries are zlib-compressed and written in path order.
func Write(w io.Writer, files map[string][]byte) error {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var body, table bytes.Buffer
	for _, p := range paths {
		data := files[p]

		var compressed bytes.Buffer
		zw := zlib.NewWriter(&compressed)
		if _, err := zw.Write(data); err != nil {
			return fmt.Errorf("compressing %s: %w", p, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("compressing %s: %w", p, err)
		}

		size := uint32(compressed.Len())
		aligned := (size + 7) &^ 7
		offset := uint32(body.Len())
		body.Write(compressed.Bytes())
		body.Write(make([]byte, aligned-size))

		name := bytes.ReplaceAll(encoding.UTF8ToEUCKR(encoding.NormalizeGRFPath(p)), []byte("/"), []byte("\\"))
		table.Write(name)
		table.WriteByte(0)

		var entry [entryDataSize]byte
		binary.LittleEndian.PutUint32(entry[0:], size)
		binary.LittleEndian.PutUint32(entry[4:], aligned)
		binary.LittleEndian.PutUint32(entry[8:], uint32(len(data)))
		entry[12] = flagFile
		binary.LittleEndian.PutUint32(entry[13:], offset)
		table.Write(entry[:])
	}

	var compressedTable bytes.Buffer
	tw := zlib.NewWriter(&compressedTable)
	if _, err := tw.Write(table.Bytes()); err != nil {
		return fmt.Errorf("compressing file table: %w", err)
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("compressing file table: %w", err)
	}

	header := Header{
		TableOffset: uint32(body.Len()),
		FileCount:   uint32(len(paths) + 7),
		Version:     supported,
	}
	copy(header.Magic[:], grfMagic)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return fmt.Errorf("writing file data: %w", err)
	}
	sizes := [2]uint32{uint32(compressedTable.Len()), uint32(table.Len())}
	if err := binary.Write(w, binary.LittleEndian, sizes); err != nil {
		return fmt.Errorf("writing table sizes: %w", err)
	}
	if _, err := w.Write(compressedTable.Bytes()); err != nil {
		return fmt.Errorf("writing file table: %w", err)
	}
	return nil
}
