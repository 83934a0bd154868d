package vedur

// TextTypes lists the descriptive texts published by the service, keyed by type.
var TextTypes = map[string]string{
	"2":  "Veðurhorfur á landinu",
	"3":  "Veðurhorfur á höfuðborgarsvæðinu",
	"5":  "Veðurhorfur á landinu næstu daga",
	"6":  "Veðurhorfur á landinu næstu daga",
	"7":  "Weather outlook",
	"9":  "Veðuryfirlit",
	"10": "Veðurlýsing",
	"11": "Íslenskar viðvaranir fyrir land",
	"12": "Veðurhorfur á landinu",
	"14": "Enskar viðvaranir fyrir land",
	"27": "Weather forecast for the next several days",
	"30": "Miðhálendið",
	"31": "Suðurland",
	"32": "Faxaflói",
	"33": "Breiðafjörður",
	"34": "Vestfirðir",
	"35": "Strandir og Norðurland vestra",
	"36": "Norðurlandi eystra",
	"37": "Austurland að Glettingi",
	"38": "Austfirðir",
	"39": "Suðausturland",
	"42": "General synopsis",
}
