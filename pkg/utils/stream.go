package utils

import (
	"crypto/md5"
	"encoding/hex"
	"hash"
	"io"
)

// HashingReader computes an MD5 checksum and a byte count while reading
type HashingReader struct {
	reader io.Reader
	hash   hash.Hash
	n      int64
}

// Read reads data from the underlying reader and updates the hash
func (hr *HashingReader) Read(p []byte) (n int, err error) {
	n, err = hr.reader.Read(p)
	if n > 0 {
		hr.hash.Write(p[:n])
		hr.n += int64(n)
	}
	return
}

// Sum returns the hex MD5 of everything read so far.
// Call this after streaming is complete
func (hr *HashingReader) Sum() string {
	return hex.EncodeToString(hr.hash.Sum(nil))
}

// BytesRead returns how many bytes went through the reader
func (hr *HashingReader) BytesRead() int64 {
	return hr.n
}

// NewMD5Reader wraps reader so that its MD5 checksum is computed while it is streamed elsewhere
func NewMD5Reader(reader io.Reader) *HashingReader {
	return &HashingReader{
		reader: reader,
		hash:   md5.New(),
	}
}
