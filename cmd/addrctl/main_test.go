package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/address-resolver/app/models"
	"github.com/address-resolver/app/services"
	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatch(t *testing.T) {
	idx := gazetteer.Build(
		[]gazetteer.Record{{Province: "Hà Nội", Subunit: "Quận Ba Đình"}},
		[]gazetteer.Record{{Province: "Hà Nội", Subunit: "Phường Ba Đình"}},
		nil,
	)
	res, err := resolver.New(idx)
	require.NoError(t, err)
	svc := services.NewAddressService(res, nil, 1, nil)

	in := strings.NewReader("Phường Ba Đình, Quận Ba Đình, Hà Nội\n\nHà Nội\n")
	var out bytes.Buffer
	n, err := runBatch(context.Background(), svc, in, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	var first, blank models.AddressResult
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "hà nội", first.Parsed.Province)
	assert.Equal(t, "quận ba đình", first.Parsed.Subdivision)
	assert.Equal(t, []string{"phường ba đình"}, first.Parsed.SubSubdivision)

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &blank))
	assert.Equal(t, models.StatusEmpty, blank.Status)
	assert.NotEmpty(t, blank.Error)
}
