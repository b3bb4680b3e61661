package wordpress

// Table names are filled in with fmt; every value is a bound parameter.

const eventListSQL = `
SELECT events.ID,
       MIN(event_date.meta_value) AS starts_at,
       MIN(productions.meta_value) AS production_id
FROM %[1]s AS events
JOIN %[2]s AS productions ON events.ID = productions.post_id
LEFT OUTER JOIN %[3]s AS categories ON productions.meta_value = categories.object_id
JOIN %[2]s AS event_date ON events.ID = event_date.post_id
WHERE events.post_type = ?
  AND events.post_status = 'publish'
  AND productions.meta_key = ?
  AND event_date.meta_key = 'event_date'
  AND event_date.meta_value LIKE '____-__-__ __:__%%'`

const eventMetaSQL = `
SELECT post_id, meta_key, meta_value
FROM %[1]s
WHERE meta_key IN ('venue', 'city', 'tickets_url')
  AND post_id IN (%[2]s)`

const productionsSQL = `
SELECT p.ID, p.post_title, p.post_name, p.post_excerpt, COALESCE(att.meta_value, '')
FROM %[1]s AS p
LEFT JOIN %[2]s AS thumb ON thumb.post_id = p.ID AND thumb.meta_key = '_thumbnail_id'
LEFT JOIN %[2]s AS att ON att.post_id = thumb.meta_value AND att.meta_key = '_wp_attached_file'
WHERE p.post_type = ?
  AND p.ID IN (%[3]s)`

const productionCategoriesSQL = `
SELECT tr.object_id, t.term_id, tt.term_taxonomy_id, t.slug, t.name
FROM %[1]s AS tr
JOIN %[2]s AS tt ON tt.term_taxonomy_id = tr.term_taxonomy_id
JOIN %[3]s AS t ON t.term_id = tt.term_id
WHERE tt.taxonomy = 'category'
  AND tr.object_id IN (%[4]s)
ORDER BY t.name`

const categoryBySlugSQL = `
SELECT t.term_id, tt.term_taxonomy_id, t.slug, t.name
FROM %[1]s AS t
JOIN %[2]s AS tt ON tt.term_id = t.term_id
WHERE tt.taxonomy = 'category'
  AND t.slug = ?
LIMIT 1`
