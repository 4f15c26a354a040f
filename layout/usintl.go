package layout

import "keytap/keys"

// USInternational is the US-International layout: QWERTY with dead keys
// on the apostrophe, grave and shifted 6 positions.
func USInternational() *Layout {
	l, _ := Get("us-intl")
	return l
}

func init() {
	e := usEntries()
	e[keys.Apostrophe] = Entry{BaseDead: '´', ShiftDead: '¨'}
	e[keys.Grave] = Entry{BaseDead: '`', ShiftDead: '~'}
	e[keys.Digit6] = Entry{Base: "6", ShiftDead: 'ˆ'}
	Register(New("us-intl", e, usIntlCompose()))
}

// usIntlCompose is the dead-key sub-table: mark + base rune of the next
// key's output. Space produces the mark's standalone glyph.
func usIntlCompose() map[rune]map[rune]string {
	return map[rune]map[rune]string{
		'´': {
			'a': "á", 'e': "é", 'i': "í", 'o': "ó", 'u': "ú", 'y': "ý", 'c': "ç",
			'A': "Á", 'E': "É", 'I': "Í", 'O': "Ó", 'U': "Ú", 'Y': "Ý", 'C': "Ç",
			' ': "'",
		},
		'¨': {
			'a': "ä", 'e': "ë", 'i': "ï", 'o': "ö", 'u': "ü", 'y': "ÿ",
			'A': "Ä", 'E': "Ë", 'I': "Ï", 'O': "Ö", 'U': "Ü",
			' ': "\"",
		},
		'`': {
			'a': "à", 'e': "è", 'i': "ì", 'o': "ò", 'u': "ù",
			'A': "À", 'E': "È", 'I': "Ì", 'O': "Ò", 'U': "Ù",
			' ': "`",
		},
		'~': {
			'a': "ã", 'n': "ñ", 'o': "õ",
			'A': "Ã", 'N': "Ñ", 'O': "Õ",
			' ': "~",
		},
		'ˆ': {
			'a': "â", 'e': "ê", 'i': "î", 'o': "ô", 'u': "û",
			'A': "Â", 'E': "Ê", 'I': "Î", 'O': "Ô", 'U': "Û",
			' ': "^",
		},
	}
}
