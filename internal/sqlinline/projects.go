package sqlinline

const QSelectRecentProjects = `--sql 06f9aabf-cc35-4d0d-9cad-f2f095b2c394
select id, title, platform, summary, created_at
from projects
where profile_id = $1::uuid
order by created_at desc
limit $2::int;
`

const QCountProjects = `--sql 8b734082-3868-4064-bf93-b528ca931be4
select count(*)
from projects
where user_id = $1::uuid;
`
