package crmdto

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseTags(t *testing.T) {
	got := ParseTags("vip, retail , ")
	want := []string{"vip", "retail"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseTags phải trim và loại phần tử rỗng, nhận được: %v", got)
	}
}

func TestParseTags_ChuoiRong(t *testing.T) {
	got := ParseTags("   ")
	if got == nil {
		t.Fatal("chuỗi rỗng phải trả về slice rỗng, không phải nil")
	}
	if len(got) != 0 {
		t.Errorf("chuỗi rỗng phải trả về slice rỗng, nhận được: %v", got)
	}
}

func TestTagList_UnmarshalJSON_Mang(t *testing.T) {
	var tags TagList
	if err := json.Unmarshal([]byte(`[" vip ", "", "retail"]`), &tags); err != nil {
		t.Fatalf("unmarshal mảng lỗi: %v", err)
	}
	want := TagList{"vip", "retail"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("mảng tags phải được normalize, nhận được: %v", tags)
	}
}

func TestTagList_UnmarshalJSON_Chuoi(t *testing.T) {
	var tags TagList
	if err := json.Unmarshal([]byte(`"vip, retail"`), &tags); err != nil {
		t.Fatalf("unmarshal chuỗi lỗi: %v", err)
	}
	want := TagList{"vip", "retail"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("chuỗi tags phải được tách theo dấu phẩy, nhận được: %v", tags)
	}
}

func TestTagList_UnmarshalJSON_KieuKhongHopLe(t *testing.T) {
	var tags TagList
	if err := json.Unmarshal([]byte(`123`), &tags); err == nil {
		t.Error("tags dạng số phải trả lỗi")
	}
}

func TestTagList_UnmarshalJSON_TrongInput(t *testing.T) {
	var input CustomerCreateInput
	body := `{"name":"A","email":"a@b.com","tags":"vip,  gold"}`
	if err := json.Unmarshal([]byte(body), &input); err != nil {
		t.Fatalf("unmarshal input lỗi: %v", err)
	}
	want := TagList{"vip", "gold"}
	if !reflect.DeepEqual(input.Tags, want) {
		t.Errorf("tags trong input phải được parse, nhận được: %v", input.Tags)
	}
}
