package badger

import (
	"fmt"

	"github.com/medisearch/medisearch/core"
)

// Key prefixes for stored data. The sequence name and schema key must not
// share the record key prefix so the record scan can use a plain prefix
// iterator.
const (
	recordPrefix  = "hosrec:"
	recordSeqName = "hosseq"
	schemaKeyName = "hosschema"
)

// makeRecordKey generates a key for a record by ID.
func makeRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s%d", recordPrefix, id))
}

// makeSchemaKey generates the key holding the persisted metadata schema.
func makeSchemaKey() []byte {
	return []byte(schemaKeyName)
}
