package sensors

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRawQuery(t *testing.T) {
	cases := []struct {
		raw      string
		expected ListQuery
	}{
		{"", ListQuery{FilterAll, 1, 25}},
		{"?status=online", ListQuery{FilterOnline, 1, 25}},
		{"status=offline&page=3&size=50", ListQuery{FilterOffline, 3, 50}},
		{"status=ONLINE", ListQuery{FilterAll, 1, 25}},
		{"status=broken&page=-2&size=33", ListQuery{FilterAll, 1, 25}},
		{"page=0&size=100", ListQuery{FilterAll, 1, 100}},
		{"page=two&size=", ListQuery{FilterAll, 1, 25}},
		{"page=2.5", ListQuery{FilterAll, 1, 25}},
		{"%zz&page=4", ListQuery{FilterAll, 4, 25}},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseRawQuery(tc.raw))
		})
	}
}

func TestEncode_OmitsDefaults(t *testing.T) {
	assert.Equal(t, "", DefaultQuery().Encode())
	assert.Equal(t, "status=online", ListQuery{FilterOnline, 1, 25}.Encode())
	assert.Equal(t, "page=2&size=100&status=offline", ListQuery{FilterOffline, 2, 100}.Encode())
}

func TestEncode_ParseRoundTrip(t *testing.T) {
	for _, status := range []StatusFilter{FilterAll, FilterOnline, FilterOffline} {
		for _, size := range PageSizes {
			for _, page := range []int{1, 2, 17} {
				q := ListQuery{Status: status, Page: page, PageSize: size}
				assert.Equal(t, q, ParseRawQuery(q.Encode()))
			}
		}
	}
}

func TestUpdateParams_StatusAndPage(t *testing.T) {
	raw := UpdateURL("", ParamUpdate{}.WithStatus(FilterOffline).WithPage(2))

	assert.Equal(t, ListQuery{Status: FilterOffline, Page: 2, PageSize: DefaultPageSize}, ParseRawQuery(raw))
}

func TestUpdateParams_StatusChangeResetsPage(t *testing.T) {
	raw := UpdateURL("page=3", ParamUpdate{}.WithStatus(FilterOnline))

	values, err := url.ParseQuery(raw)
	assert.NoError(t, err)
	assert.Equal(t, "online", values.Get(ParamStatus))
	assert.Empty(t, values.Get(ParamPage))
	assert.Equal(t, 1, ParseRawQuery(raw).Page)
}

func TestUpdateParams_SizeChangeResetsPage(t *testing.T) {
	next := UpdateParams(ListQuery{FilterOnline, 4, 25}, ParamUpdate{}.WithPageSize(50))
	assert.Equal(t, ListQuery{FilterOnline, 1, 50}, next)
}

func TestUpdateParams_SameStatusKeepsPage(t *testing.T) {
	next := UpdateParams(ListQuery{FilterOnline, 4, 25}, ParamUpdate{}.WithStatus(FilterOnline))
	assert.Equal(t, 4, next.Page)
}

func TestUpdateParams_PageOnly(t *testing.T) {
	next := UpdateParams(ListQuery{FilterOffline, 1, 50}, ParamUpdate{}.WithPage(3))
	assert.Equal(t, ListQuery{FilterOffline, 3, 50}, next)
}

func TestUpdateParams_InvalidValuesSelfHeal(t *testing.T) {
	next := UpdateParams(ListQuery{FilterOnline, 2, 25}, ParamUpdate{}.WithPage(-1).WithPageSize(7))
	assert.Equal(t, ListQuery{FilterOnline, 1, 25}, next)
}

func TestUpdateURL_KeepsForeignParams(t *testing.T) {
	raw := UpdateURL("site=hq&status=online&page=2", ParamUpdate{}.WithPage(3))

	values, err := url.ParseQuery(raw)
	assert.NoError(t, err)
	assert.Equal(t, "hq", values.Get("site"))
	assert.Equal(t, "3", values.Get(ParamPage))
	assert.Equal(t, "online", values.Get(ParamStatus))
}
