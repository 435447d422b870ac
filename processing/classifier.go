package processing

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"log"
	"math"
	"time"

	"courseware/recognition"
)

// classifierSync keeps the deep tier's identity classifier in step with the
// enrolled templates so its auxiliary classification stays meaningful.
type classifierSync struct {
	repo     recognition.TemplateRepository
	lastHash uint64
}

func (t *classifierSync) getName() string {
	return "classifier-sync"
}

func (t *classifierSync) process() int {
	deep := recognition.Deep()
	if deep == nil || deep.Available() != nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	templates, err := t.repo.FetchTemplates(ctx, recognition.TagDeep)
	if err != nil {
		log.Printf("classifier-sync fetch error: %v", err)
		return 0
	}
	hash := samplesHash(templates)
	if hash == t.lastHash {
		return 0
	}
	userIDs := make([]uint64, 0, len(templates))
	vectors := make([][]float32, 0, len(templates))
	for _, template := range templates {
		userIDs = append(userIDs, template.UserID)
		vectors = append(vectors, template.Vector)
	}
	deep.SetSamples(userIDs, vectors)
	t.lastHash = hash
	return len(templates)
}

func samplesHash(templates []recognition.Template) uint64 {
	h := fnv.New64a()
	var scratch [8]byte
	for _, template := range templates {
		binary.LittleEndian.PutUint64(scratch[:], template.UserID)
		h.Write(scratch[:])
		for _, v := range template.Vector {
			binary.LittleEndian.PutUint32(scratch[:4], math.Float32bits(v))
			h.Write(scratch[:4])
		}
	}
	return h.Sum64()
}
