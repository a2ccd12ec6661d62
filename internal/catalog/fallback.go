package catalog

import (
	"slices"

	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

const (
	posterBase = "https://image.tmdb.org/t/p/w600_and_h900_bestv2/"
	coverBase  = "https://image.tmdb.org/t/p/original/"
)

var fallbackCatalog = []model.Anime{
	{ID: "1429", Title: "هجوم العمالقة", Image: posterBase + "hTP1DtLGFamjfu8WqjnuQdPuy61.jpg", Cover: coverBase + "aD8ruDZci88vQKSKAgFfS4d156N.jpg", Description: "قبل مئات السنين، شارف البشر على الفناء من قبل العمالقة...", Rating: 9.1, Genres: []string{"أكشن", "خيال", "دراما"}, ReleaseDate: "2013", Type: model.TypeSeries, Status: statusEnded, Likes: 1205},
	{ID: "37854", Title: "ون بيس", Image: posterBase + "fcXdJlbSdUEeMSJFsXKsznGwwok.jpg", Cover: coverBase + "acIGnIwIpSo26gHUPFRz8ARzdGx.jpg", Description: "يتبع مغامرات مونكي دي لوفي وطاقم القراصنة لاستكشاف المحيط...", Rating: 9.5, Genres: []string{"أكشن", "مغامرة"}, ReleaseDate: "1999", Type: model.TypeSeries, Status: statusOngoing, Likes: 9000},
	{ID: "95479", Title: "جوجوتسو كايسن", Image: posterBase + "fJV1a98295962b322307567636.jpg", Cover: coverBase + "eNp1FHzEW33jQLXh9p723Jt825w.jpg", Description: "يتورط يوجي إيتادوري في عالم السحر والشياطين بعد ابتلاع إصبع ملعون...", Rating: 8.8, Genres: []string{"أكشن", "خارق للطبيعة"}, ReleaseDate: "2020", Type: model.TypeSeries, Status: statusOngoing, Likes: 5000},
	{ID: "85937", Title: "قاتل الشياطين", Image: posterBase + "xUfRZu2mi8jH6SzQEYdB96kBh4q.jpg", Cover: coverBase + "nTvM4mhqNlHIvUkI1gVnW6XP7GG.jpg", Description: "بعد مقتل عائلته وتحول أخته إلى شيطان، يبدأ تانجيرو رحلته...", Rating: 8.9, Genres: []string{"أكشن", "خيال"}, ReleaseDate: "2019", Type: model.TypeSeries, Status: statusOngoing, Likes: 6500},
	{ID: "46260", Title: "ناروتو شيبودن", Image: posterBase + "zAYRe2bJxpWTVrwwmBc00VFkAf4.jpg", Cover: coverBase + "41e23737522513233633644.jpg", Description: "يواصل ناروتو تدريبه ويواجه منظمة الأكاتسكي...", Rating: 8.7, Genres: []string{"أكشن", "مغامرة"}, ReleaseDate: "2007", Type: model.TypeSeries, Status: statusEnded, Likes: 8000},
	{ID: "80564", Title: "بليتش: حرب الألف سنة", Image: posterBase + "2EewmxXe72ogD0EaWM8gqa0ccIw.jpg", Cover: coverBase + "5g8yDdfu695576555.jpg", Description: "يعود إيتشيغو كوروساكي للمعركة الأخيرة ضد الكوينسي...", Rating: 9.0, Genres: []string{"أكشن", "خارق للطبيعة"}, ReleaseDate: "2022", Type: model.TypeSeries, Status: statusOngoing, Likes: 4200},
	{ID: "31911", Title: "فول ميتال ألكيميست", Image: posterBase + "5WEuoOLjwx35DwhfTlAeDeqIsvk.jpg", Cover: coverBase + "9r5556666.jpg", Description: "أخوان يبحثان عن حجر الفلاسفة لاستعادة أجسادهم...", Rating: 9.2, Genres: []string{"مغامرة", "خيال"}, ReleaseDate: "2009", Type: model.TypeSeries, Status: statusEnded, Likes: 3000},
	{ID: "60572", Title: "بلاك كلوفر", Image: posterBase + "2y4F2523523523.jpg", Cover: coverBase + "eNp1FHzEW33jQLXh9p723Jt825w.jpg", Description: "أستا ويونو، يتيمان يسعيان ليصبح أحدهما إمبراطور السحر...", Rating: 8.5, Genres: []string{"أكشن", "سحر"}, ReleaseDate: "2017", Type: model.TypeSeries, Status: statusEnded, Likes: 3500},
	{ID: "65930", Title: "بوكو نو هيرو", Image: posterBase + "phuYyq43434.jpg", Cover: coverBase + "41e23737522513233633644.jpg", Description: "في عالم يمتلك فيه الجميع قدرات خارقة، يولد ديكو بلا قدرة...", Rating: 8.3, Genres: []string{"أكشن", "مدرسة"}, ReleaseDate: "2016", Type: model.TypeSeries, Status: statusOngoing, Likes: 4100},
	{ID: "136", Title: "هنتر × هنتر", Image: posterBase + "uc955555.jpg", Cover: coverBase + "9r5556666.jpg", Description: "غون يسعى ليصبح صياداً محترفاً ويعثر على والده...", Rating: 9.3, Genres: []string{"مغامرة", "خيال"}, ReleaseDate: "2011", Type: model.TypeSeries, Status: statusEnded, Likes: 7000},
}

// Fallback returns a copy of the built-in catalog served when TMDB is unreachable.
func Fallback() []model.Anime {
	out := make([]model.Anime, len(fallbackCatalog))
	for i, a := range fallbackCatalog {
		a.Genres = slices.Clone(a.Genres)
		out[i] = a
	}
	return out
}
