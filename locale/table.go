// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package locale

type pluralRule struct {
	n    int
	expr string
}

var (
	oneForm      = pluralRule{1, "0"}
	twoForms     = pluralRule{2, "(n != 1)"}
	twoFormsZero = pluralRule{2, "(n > 1)"}
	eastSlavic   = pluralRule{3, "(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2)"}
	westSlavic   = pluralRule{3, "(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2"}
)

// pluralTable holds the canonical plural rules, keyed by ISO 639 base
// language.
var pluralTable = map[string]pluralRule{
	// one form
	"ja": oneForm, "zh": oneForm, "ko": oneForm, "vi": oneForm, "th": oneForm,
	"id": oneForm, "ms": oneForm,

	// two forms
	"en": twoForms, "de": twoForms, "es": twoForms, "it": twoForms, "pt": twoForms,
	"nl": twoForms, "sv": twoForms, "da": twoForms, "nb": twoForms, "nn": twoForms,
	"fi": twoForms, "el": twoForms, "tr": twoForms, "he": twoForms, "hu": twoForms,
	"et": twoForms, "bg": twoForms, "ca": twoForms, "ur": twoForms,
	"fr": twoFormsZero, "fa": twoFormsZero,

	// three forms
	"ru": eastSlavic, "uk": eastSlavic, "be": eastSlavic, "sr": eastSlavic,
	"hr": eastSlavic, "bs": eastSlavic,
	"cs": westSlavic, "sk": westSlavic,
	"pl": {3, "(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2)"},
	"lt": {3, "(n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2)"},
	"lv": {3, "(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2)"},
	"ro": {3, "(n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2)"},

	// four forms
	"sl": {4, "(n%100==1 ? 0 : n%100==2 ? 1 : n%100==3 || n%100==4 ? 2 : 3)"},
	"cy": {4, "(n==1) ? 0 : (n==2) ? 1 : (n != 8 && n != 11) ? 2 : 3"},

	// five forms
	"ga": {5, "n==1 ? 0 : n==2 ? 1 : (n>2 && n<7) ? 2 : (n>6 && n<11) ? 3 : 4"},

	// six forms
	"ar": {6, "(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5)"},
}

// rtlLanguages are the base languages written right to left.
var rtlLanguages = map[string]bool{
	"ar": true, "he": true, "fa": true, "ur": true, "yi": true,
	"ps": true, "ug": true, "ckb": true, "dv": true,
}
