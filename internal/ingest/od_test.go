package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointIDFromFilename(t *testing.T) {
	assert.Equal(t, "2003", CheckpointIDFromFilename("/data/od/checkpoint2003.csv", "checkpoint"))
	assert.Equal(t, "2003", CheckpointIDFromFilename("checkpoint2003.csv", "checkpoint"))
}

func TestReadOD_ParsesRequiredColumns(t *testing.T) {
	csv := "origin_id,destination_id,total_trips\n1002,1001,250\n1001,1001,<10\n"
	rows, err := ReadOD(strings.NewReader(csv), "2003")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "1002", rows[0].OriginZone)
	assert.Equal(t, "1001", rows[0].DestinationZone)
	assert.Equal(t, "2003", rows[0].CheckpointID)
	assert.Equal(t, 250, rows[0].TripsPerson)
	assert.Equal(t, 0, rows[0].IntrazonalFactor)

	assert.Equal(t, 1, rows[1].TripsPerson) // <10 sentinel collapses to 1
	assert.Equal(t, 1, rows[1].IntrazonalFactor)
}

func TestReadOD_DropsDirectionColumns(t *testing.T) {
	csv := "origin_id,destination_id,total_trips,Sentido\n1002,1001,250,4-2\n"
	rows, err := ReadOD(strings.NewReader(csv), "2003")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// The row carries no field derived from Sentido; SenseCode is only ever
	// set by the routing/congruence stages, never by ingest.
	assert.Empty(t, rows[0].SenseCode)
}

func TestReadOD_MissingRequiredColumn(t *testing.T) {
	csv := "origin_id,total_trips\n1002,250\n"
	_, err := ReadOD(strings.NewReader(csv), "2003")
	assert.ErrorContains(t, err, "destination_id")
}

func TestReadOD_ColumnOrderIndependent(t *testing.T) {
	csv := "total_trips,destination_id,origin_id\n250,1001,1002\n"
	rows, err := ReadOD(strings.NewReader(csv), "2003")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1002", rows[0].OriginZone)
	assert.Equal(t, "1001", rows[0].DestinationZone)
}
