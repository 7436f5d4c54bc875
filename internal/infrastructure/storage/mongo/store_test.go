package mongo

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestKeysFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, keysFilter(""))

	f := keysFilter("invoice_counter.")
	pattern := f["_id"].(bson.M)["$regex"].(string)
	assert.Equal(t, `^invoice_counter\.`, pattern)

	re := regexp.MustCompile(pattern)
	assert.True(t, re.MatchString("invoice_counter.230224"))
	assert.False(t, re.MatchString("invoice_counterX230224"))
}

func TestDocument_BSONRoundTrip(t *testing.T) {
	in := document{Key: "purchases", Value: []byte(`[]`), UpdatedAt: time.Date(2024, 2, 23, 0, 0, 0, 0, time.UTC)}

	raw, err := bson.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, "purchases", bson.Raw(raw).Lookup("_id").StringValue())

	var out document
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}
