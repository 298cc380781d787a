package sqlinline

const QInsertProfile = `--sql ef54b6a3-a2b8-413d-9b67-22620c6aca0f
with deactivated as (
    update profiles
    set active = false, updated_at = now()
    where user_id = $1::uuid and active and archived_at is null
)
insert into profiles(id, user_id, archetype, brand_name, language, tone_markers, active, created_at, updated_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::text, $5::text[], true, now(), now())
returning id, user_id, archetype, brand_name, language, tone_markers, active, created_at, updated_at;
`

const QSelectActiveProfile = `--sql 64da0c3b-07f6-48da-8edb-a09d80431352
select id, user_id, archetype, brand_name, language, tone_markers, active, created_at, updated_at, archived_at
from profiles
where user_id = $1::uuid and active and archived_at is null
limit 1;
`

const QSelectProfileByID = `--sql b76f2ed1-bdec-4298-9bd2-fa835f5f6805
select id, user_id, archetype, brand_name, language, tone_markers, active, created_at, updated_at, archived_at
from profiles
where id = $1::uuid and user_id = $2::uuid
limit 1;
`

const QListProfiles = `--sql abecca80-aad5-41b3-9025-1cabf97edb21
select id, user_id, archetype, brand_name, language, tone_markers, active, created_at, updated_at, archived_at
from profiles
where user_id = $1::uuid and archived_at is null
order by created_at desc;
`

const QActivateProfile = `--sql 5871b801-5dd5-4189-825e-635e6b8aedf0
with deactivated as (
    update profiles
    set active = false, updated_at = now()
    where user_id = $2::uuid and active and id <> $1::uuid
)
update profiles
set active = true, updated_at = now()
where id = $1::uuid and user_id = $2::uuid and archived_at is null
returning id;
`

const QArchiveProfile = `--sql 179a3262-4cb5-48c4-ba0a-152b5ebbfb35
update profiles
set active = false, archived_at = now(), updated_at = now()
where id = $1::uuid and user_id = $2::uuid and archived_at is null
returning id;
`
