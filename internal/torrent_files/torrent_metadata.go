package torrent_files

import (
	"encoding/hex"
	"fmt"
	"path"
)

type TorrentMetadata struct {
	Announcers  []string
	InfoHash    [20]byte
	Name        string
	PieceLength int64
	Pieces      [][20]byte
	Length      int64
	Files       []TorrentFile
	Comment     string
	CreatedBy   string
	Private     bool
}

type TorrentFile struct {
	Path   []string
	Length int64
}

func (m TorrentMetadata) InfoHashHex() string {
	return hex.EncodeToString(m.InfoHash[:])
}

// Summary lists the metadata as label/value lines, in a fixed order, for printing.
func (m TorrentMetadata) Summary() [][2]string {
	lines := [][2]string{
		{"name", m.Name},
		{"info hash", m.InfoHashHex()},
		{"length", fmt.Sprintf("%d", m.Length)},
		{"piece length", fmt.Sprintf("%d", m.PieceLength)},
		{"pieces", fmt.Sprintf("%d", len(m.Pieces))},
	}
	for _, a := range m.Announcers {
		lines = append(lines, [2]string{"tracker", a})
	}
	for _, f := range m.Files {
		lines = append(lines, [2]string{"file", fmt.Sprintf("%s (%d)", path.Join(f.Path...), f.Length)})
	}
	if m.Comment != "" {
		lines = append(lines, [2]string{"comment", m.Comment})
	}
	if m.CreatedBy != "" {
		lines = append(lines, [2]string{"created by", m.CreatedBy})
	}
	if m.Private {
		lines = append(lines, [2]string{"private", "yes"})
	}
	return lines
}
