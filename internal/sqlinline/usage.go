package sqlinline

const QConsumeGenerationSlot = `--sql 8f330784-13e3-4a21-883f-fe6c66606d28
insert into usage_counters(user_id, day, used)
values ($1::uuid, (now() at time zone 'utc')::date, 1)
on conflict (user_id, day) do update
    set used = usage_counters.used + 1
    where $2::int <= 0 or usage_counters.used < $2::int
returning used;
`

const QSelectUsageToday = `--sql a37b54c3-fa65-4845-814c-4ad0fcf1f40b
select coalesce(
    (select used from usage_counters
     where user_id = $1::uuid and day = (now() at time zone 'utc')::date),
    0);
`

const QPurgeStaleUsage = `--sql eac0fd70-51c2-4650-871d-011e8a899599
delete from usage_counters
where day < (now() at time zone 'utc')::date;
`
