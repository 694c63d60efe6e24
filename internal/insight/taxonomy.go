package insight

// PainCategory is one complaint bucket: a label plus the keyword substrings
// that pull a document into it.
type PainCategory struct {
	Label    string
	Keywords []string
}

// DefaultStopwords are filler terms common in Korean shopping reviews,
// excluded from both unigram and bigram vocabularies.
func DefaultStopwords() []string {
	return []string{
		"그리고", "하지만", "해서", "해서요", "정말", "진짜", "너무", "조금", "약간", "그냥", "아주", "매우", "많이",
		"제품", "상품", "구매", "사용", "리뷰", "후기", "평가", "배송", "포장", "판매자", "구매자", "가격", "사진",
		"같아요", "같습니다", "듯", "부분", "정도", "이번", "이것", "저것", "그것", "거", "것", "때", "보고", "보고싶",
		"좋아요", "괜찮아요", "추천", "비추", "만족", "불만", "최고", "최악", "문의", "답변", "설명", "상세",
	}
}

// DefaultPainCategories is the fixed complaint taxonomy. Order is the
// presentation order for equal counts.
func DefaultPainCategories() []PainCategory {
	return []PainCategory{
		{Label: "가격", Keywords: []string{"가격", "가성비", "비싸", "비용", "할인", "쿠폰"}},
		{Label: "배송/포장", Keywords: []string{"배송", "포장", "파손", "늦", "지연", "빠르", "택배"}},
		{Label: "색상/이미지", Keywords: []string{"색상", "색깔", "컬러", "사진", "이미지", "화면", "실물", "색감"}},
		{Label: "사이즈/규격", Keywords: []string{"사이즈", "크기", "규격", "높이", "폭", "길이", "두께", "맞지"}},
		{Label: "내구성/품질", Keywords: []string{"내구", "튼튼", "약함", "헐겁", "부러", "스크래치", "하자", "불량", "휘어", "찍힘"}},
		{Label: "설치/조립", Keywords: []string{"설치", "조립", "설명서", "드라이버", "피스", "구멍", "수평", "볼트", "나사"}},
		{Label: "냄새/소음", Keywords: []string{"냄새", "향", "소음", "삐걱", "삑", "소리"}},
		{Label: "착석감/사용감", Keywords: []string{"편하", "불편", "앉았", "쿠션", "등받이", "허리", "딱딱", "푹신"}},
	}
}
