package torrent

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"slices"

	"github.com/chrispritchard/gobencode/internal/bencode"
	. "github.com/chrispritchard/gobencode/internal/torrent_files"
)

// Decodes a torrent file into the relevant properties for further downloading

var ErrNoInfo = errors.New("no info key found")

func ParseTorrentFile(file_data []byte) (TorrentMetadata, error) {
	var nil_torrent TorrentMetadata
	root, err := bencode.DecodeDictionary(file_data)
	if err != nil {
		return nil_torrent, fmt.Errorf("invalid torrent: %w", err)
	}
	hash, err := get_info_hash(file_data)
	if err != nil {
		return nil_torrent, fmt.Errorf("invalid torrent: %w", err)
	}

	var announcers []string
	announce, err := bencode.Get[string](root, "announce")
	if err == nil {
		announcers = append(announcers, announce)
	}

	announce_list, err := bencode.Get[[]bencode.Value](root, "announce-list")
	if err == nil {
		for _, entry := range announce_list {
			sub_list, ok := entry.Items()
			if !ok {
				return nil_torrent, fmt.Errorf("invalid announce-list entry: %v", entry)
			}
			for _, sub_entry := range sub_list {
				final_entry, ok := sub_entry.Bytes()
				if !ok {
					return nil_torrent, fmt.Errorf("invalid announce-list entry: %v", entry)
				}
				if !slices.Contains(announcers, string(final_entry)) {
					announcers = append(announcers, string(final_entry))
				}
			}
		}
	}

	info, err := bencode.Get[bencode.Value](root, "info")
	if err != nil {
		return nil_torrent, fmt.Errorf("invalid torrent: %v", err)
	}
	if info.Kind() != bencode.DictionaryKind {
		return nil_torrent, fmt.Errorf("invalid torrent: info is a %v, not a dictionary", info.Kind())
	}

	name, err := bencode.Get[string](info, "name")
	if err != nil {
		return nil_torrent, fmt.Errorf("invalid torrent: %v", err)
	}

	piece_length, err := bencode.Get[int64](info, "piece length")
	if err != nil {
		return nil_torrent, fmt.Errorf("invalid torrent: %v", err)
	}
	if piece_length <= 0 {
		return nil_torrent, fmt.Errorf("invalid torrent: piece length %d", piece_length)
	}

	pieces, err := bencode.Get[[]byte](info, "pieces")
	if err != nil {
		return nil_torrent, fmt.Errorf("invalid torrent: %v", err)
	}
	if len(pieces)%20 != 0 {
		return nil_torrent, fmt.Errorf("invalid torrent: pieces length %d is not a multiple of 20", len(pieces))
	}
	pieces_parsed := make([][20]byte, len(pieces)/20)
	for i := range pieces_parsed {
		copy(pieces_parsed[i][:], pieces[i*20:(i+1)*20])
	}

	length, err := bencode.Get[int64](info, "length")
	files, err2 := bencode.Get[[]bencode.Value](info, "files")
	if err != nil && err2 != nil {
		return nil_torrent, fmt.Errorf("invalid torrent: invalid files or missing length")
	}
	file_set := []TorrentFile{}
	if err2 == nil {
		for _, file := range files {
			if file.Kind() != bencode.DictionaryKind {
				return nil_torrent, fmt.Errorf("invalid torrent: file entries are not valid dictionaries")
			}
			file_length, err := bencode.Get[int64](file, "length")
			if err != nil {
				return nil_torrent, fmt.Errorf("invalid torrent: %v", err)
			}
			path, err := bencode.GetStrings(file, "path")
			if err != nil {
				return nil_torrent, fmt.Errorf("invalid torrent: %v", err)
			}
			file_set = append(file_set, TorrentFile{
				Length: file_length,
				Path:   path,
			})
		}
	}

	if length == 0 {
		for _, f := range file_set {
			length += f.Length
		}
	}

	// optional keys, ignored when absent or of the wrong type
	comment, _ := bencode.Get[string](root, "comment")
	created_by, _ := bencode.Get[string](root, "created by")
	private, _ := bencode.Get[int64](info, "private")

	return TorrentMetadata{
		Announcers:  announcers,
		InfoHash:    hash,
		Name:        name,
		PieceLength: piece_length,
		Pieces:      pieces_parsed,
		Length:      length,
		Files:       file_set,
		Comment:     comment,
		CreatedBy:   created_by,
		Private:     private == 1,
	}, nil
}

// get_info_hash hashes the info dictionary exactly as it appears in the file, which may differ from its canonical
// re-encoding when the file is not canonical. A repeated info key hashes the last one, matching what Decode keeps.
func get_info_hash(data []byte) ([20]byte, error) {
	var nil_hash [20]byte
	var info_span []byte
	data = data[1:] // 'd'
	for len(data) > 0 && data[0] != 'e' {
		key, r, err := bencode.DecodePrefix(data)
		if err != nil {
			return nil_hash, err
		}
		k, ok := key.Bytes()
		if !ok {
			return nil_hash, fmt.Errorf("invalid dictionary - keys should be strings")
		}
		value_start := r
		_, r, err = bencode.DecodePrefix(value_start)
		if err != nil {
			return nil_hash, err
		}
		if string(k) == "info" {
			info_span = value_start[:len(value_start)-len(r)]
		}
		data = r
	}
	if info_span == nil {
		return nil_hash, ErrNoInfo
	}
	return sha1.Sum(info_span), nil
}
