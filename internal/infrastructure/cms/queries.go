package cms

// GROQ-style query descriptors. Projections alias CMS fields onto the wire
// names the domain entities unmarshal, so responses decode directly.

const (
	cardProjection = `{
		"id": _id, "nodeType": _type, "slug": slug.current, title, published,
		score, verdict, "coverUrl": cover.asset->url,
		"placeholder": cover.asset->metadata.lqip,
		"gameId": game._ref, "tagIds": tags[]._ref, "creatorIds": creators[]._ref
	}`

	fullProjection = `{
		"id": _id, "nodeType": _type, "slug": slug.current, title, published,
		score, verdict, "coverUrl": cover.asset->url,
		"placeholder": cover.asset->metadata.lqip,
		"gameId": game._ref, "tagIds": tags[]._ref, "creatorIds": creators[]._ref,
		body,
		"game": game->{"id": _id, "nodeType": _type, "slug": slug.current, title, releaseDate, platforms, "coverUrl": cover.asset->url},
		"tags": tags[]->{"id": _id, "nodeType": _type, "slug": slug.current, title}
	}`

	querySectionList = `*[_type == $type] | order(published desc) [$offset...$end] %s`

	queryBySlug = `*[_type == $type && slug.current == $slug][0] %s`

	queryGamesByIDs = `*[_type == "game" && _id in $ids]{
		"id": _id, "nodeType": _type, "slug": slug.current, title, releaseDate, platforms,
		"coverUrl": cover.asset->url,
		"linkedContent": *[references(^._id)] | order(published desc) %s
	}`

	queryTagsByIDs = `*[_type == "tag" && _id in $ids]{
		"id": _id, "nodeType": _type, "slug": slug.current, title,
		"linkedContent": *[references(^._id)] | order(published desc) %s
	}`

	queryCreators = `*[_type == "creator"]{
		"id": _id, "nodeType": _type, "profileId": profileId, "handle": handle.current,
		name, "avatar": avatar.asset->url, bio, roles,
		"linkedContent": *[references(^._id)] | order(published desc) [0...$recent] %s
	}`

	queryReleases = `*[_type == "release"] | order(date asc) {
		"id": _id, "nodeType": _type, title, "gameId": game._ref, date,
		"credits": credits[]{"creatorId": creator._ref, role}
	}`

	queryLinkedContent = `*[_type in ["review","article","news"] && references($id)] | order(published desc) %s`

	queryHighlightDictionary = `*[_type == "highlightDictionary"][0].entries[]{word, color}`
)
