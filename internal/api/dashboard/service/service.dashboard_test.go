// Package dashboardsvc - test các helper filter và tỷ lệ chuyển đổi.
package dashboardsvc

import (
	"testing"

	crmmodels "biz_crm/internal/api/crm/models"
	dashboarddto "biz_crm/internal/api/dashboard/dto"
)

func TestNormalizeRange(t *testing.T) {
	if got := NormalizeRange("month"); got != dashboarddto.RangeMonth {
		t.Errorf("month phải giữ nguyên, nhận được: %s", got)
	}
	if got := NormalizeRange("quarter"); got != dashboarddto.RangeQuarter {
		t.Errorf("quarter phải giữ nguyên, nhận được: %s", got)
	}
	if got := NormalizeRange(""); got != dashboarddto.RangeWeek {
		t.Errorf("range rỗng phải rơi về week, nhận được: %s", got)
	}
	if got := NormalizeRange("khong-hop-le"); got != dashboarddto.RangeWeek {
		t.Errorf("giá trị lạ phải rơi về week, nhận được: %s", got)
	}
}

func TestConversionRate(t *testing.T) {
	cases := []struct {
		converted, total, want int64
	}{
		{0, 0, 0}, // không có lead thì 0, không chia cho 0
		{0, 10, 0},
		{5, 10, 50},
		{1, 3, 33}, // round(33.33)
		{2, 3, 67}, // round(66.67)
		{10, 10, 100},
	}
	for _, c := range cases {
		if got := ConversionRate(c.converted, c.total); got != c.want {
			t.Errorf("ConversionRate(%d, %d) = %d, muốn %d", c.converted, c.total, got, c.want)
		}
	}
}

func TestConvertedLeadFilter_LaTapConCuaTongSoLead(t *testing.T) {
	base := LeadBaseFilter()
	converted := ConvertedLeadFilter()

	// Tập lead đã chuyển đổi phải nằm trong tập đếm tổng: mọi điều kiện của
	// filter nền phải có mặt trong filter chuyển đổi, nếu không tỷ lệ có thể
	// vượt 100% (lead chuyển đổi bị archive nhưng vẫn bị đếm vào tử số).
	for key, want := range base {
		got, ok := converted[key]
		if !ok {
			t.Errorf("filter chuyển đổi thiếu điều kiện nền %q", key)
			continue
		}
		if got != want {
			t.Errorf("điều kiện %q không khớp filter nền: %v != %v", key, got, want)
		}
	}

	if converted["status"] != crmmodels.LeadStatusClosedWon {
		t.Errorf("filter chuyển đổi phải đếm status Closed Won, nhận được: %v", converted["status"])
	}
	if base["isArchived"] != false {
		t.Errorf("filter nền phải loại lead đã archive: %v", base)
	}
}

func TestConvertedLeadFilter_KhongSuaFilterNen(t *testing.T) {
	_ = ConvertedLeadFilter()
	base := LeadBaseFilter()
	if _, ok := base["status"]; ok {
		t.Error("ConvertedLeadFilter không được làm bẩn filter nền dùng chung")
	}
}
