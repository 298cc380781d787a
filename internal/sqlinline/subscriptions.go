package sqlinline

const QSelectQualifyingSubscriptions = `--sql 395e4ed8-df5a-46be-93cc-0d6a16ecc042
select id, user_id, customer_ref, status, current_period_end
from subscriptions
where user_id = $1::uuid
  and status in ('active', 'trialing')
  and current_period_end > now()
order by current_period_end desc;
`

const QGrantSubscription = `--sql 51a8445a-5119-4b79-9e6c-4e7241519bfe
insert into subscriptions(user_id, customer_ref, status, current_period_end)
values ($1::uuid, $2, 'active', $3::timestamptz)
returning id, user_id, customer_ref, status, current_period_end;
`

const QCancelSubscriptions = `--sql c6d96969-ce25-4932-995c-f21d2855b12f
update subscriptions
set status = 'canceled'
where user_id = $1::uuid
  and status in ('active', 'trialing');
`
