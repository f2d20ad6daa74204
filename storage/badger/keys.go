package badger

import (
	"encoding/binary"

	"github.com/poiesic/categorit/core"
)

// Key prefixes for different data types
const (
	embeddingPrefix = "embrec:"
	stockPrefix     = "stkrec:"
)

// makeEmbeddingModelPrefix generates the key prefix shared by all vectors of a model.
// Format: prefix + modelID
func makeEmbeddingModelPrefix(model string) []byte {
	buf := make([]byte, len(embeddingPrefix)+8)
	offset := copy(buf, embeddingPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(core.IDFromContent(model)))
	return buf
}

// makeEmbeddingKey generates a key for a cached vector.
// Format: prefix + modelID + textID, both hashed so arbitrary model names cannot collide.
func makeEmbeddingKey(model, text string) []byte {
	prefix := makeEmbeddingModelPrefix(model)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(core.IDFromContent(text)))
	return buf
}

// makeStockKey generates a key for a stock record. Keys sort by path.
func makeStockKey(path string) []byte {
	buf := make([]byte, len(stockPrefix)+len(path))
	offset := copy(buf, stockPrefix)
	copy(buf[offset:], path)
	return buf
}
