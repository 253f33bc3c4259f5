package carsensor

// listCardsJS extracts up to %d listing cards from a results page.
const listCardsJS = `
(function() {
	var limit = %d;
	var results = [];
	var seen = {};

	function text(root, selectors) {
		for (var i = 0; i < selectors.length; i++) {
			var el = root.querySelector(selectors[i]);
			if (el && el.innerText.trim()) return el.innerText.trim();
		}
		return '';
	}

	function specs(root) {
		var out = {};
		var boxes = root.querySelectorAll('.specList__detailBox, dl');
		for (var i = 0; i < boxes.length; i++) {
			var dt = boxes[i].querySelector('dt');
			var dd = boxes[i].querySelector('dd');
			if (dt && dd) out[dt.innerText.trim()] = dd.innerText.replace(/\s+/g, ' ').trim();
		}
		return out;
	}

	var cards = document.querySelectorAll('.cassetteWrap .cassette, .cassette');
	for (var i = 0; i < cards.length && results.length < limit; i++) {
		var c = cards[i];
		var link = c.querySelector('.cassetteMain__title a, a[href*="/usedcar/detail/"]');
		var url = link ? link.href : '';
		if (!url || seen[url]) continue;
		seen[url] = true;

		var price = text(c, ['.totalPrice__content', '.totalPrice']);
		results.push({
			name:    text(c, ['.cassetteMain__carInfoContainer p', '.cassetteMain__title']),
			grade:   text(c, ['.cassetteMain__subTitle', '.cassetteMain__grade']),
			price:   price.replace(/\s+/g, ''),
			url:     url,
			comment: text(c, ['.cassetteSub__comment', '.cassetteMain__comment']),
			specs:   specs(c)
		});
	}
	return results;
})()
`

// nextPageJS returns the href of the next results page, or ''.
const nextPageJS = `
(function() {
	var candidates = [
		document.querySelector('link[rel="next"]'),
		document.querySelector('.pager__btn__next a'),
		document.querySelector('a.pager__btn__next'),
		document.querySelector('button.pager__btn__next')
	];
	for (var i = 0; i < candidates.length; i++) {
		var el = candidates[i];
		if (!el) continue;
		var href = el.href || el.getAttribute('data-href') || '';
		if (href) return href;
	}
	return '';
})()
`

// detailJS extracts the fields of a listing detail page.
const detailJS = `
(function() {
	function text(selectors) {
		for (var i = 0; i < selectors.length; i++) {
			var el = document.querySelector(selectors[i]);
			if (el && el.innerText.trim()) return el.innerText.trim();
		}
		return '';
	}

	var specs = {};
	var ths = document.querySelectorAll('.specWrap th, .defaultTable th');
	for (var i = 0; i < ths.length; i++) {
		var td = ths[i].nextElementSibling;
		if (td) specs[ths[i].innerText.trim()] = td.innerText.replace(/\s+/g, ' ').trim();
	}

	return {
		name:    text(['h1 .title1', 'h1']),
		grade:   text(['.title2', '.grade']),
		price:   text(['.basePrice__content', '.totalPrice__content']).replace(/\s+/g, ''),
		comment: text(['.shopComment__text', '.comment']),
		specs:   specs
	};
})()
`
