package sqlinline

const donationColumns = `d.id, d.donor_id, d.ngo_id, d.status, d.food_type, d.quantity, d.description,
       d.pickup_address, d.pickup_date, d.contact_phone, d.notes,
       d.claimed_at, d.collected_at, d.completed_at, d.created_at, d.updated_at`

const QInsertDonation = `--sql 20923f08-1de5-44d9-86fd-08b7d40952b1
insert into donations (id, donor_id, status, food_type, quantity, description,
                       pickup_address, pickup_date, contact_phone, notes, created_at, updated_at)
values (gen_random_uuid(), $1::uuid, 'pending', $2::text, $3::text, $4::text,
        $5::text, $6::timestamptz, $7::text, $8::text, now(), now())
returning id, donor_id, ngo_id, status, food_type, quantity, description,
          pickup_address, pickup_date, contact_phone, notes,
          claimed_at, collected_at, completed_at, created_at, updated_at;
`

const QSelectDonationByID = `--sql 372f0da6-a122-43df-a314-90247858a8ca
select ` + donationColumns + `
from donations d
where d.id = $1::uuid
limit 1;
`

// QClaimDonation is the single compare-and-swap write behind claims: the row
// is updated only while still pending and unclaimed (or claimed by the same
// NGO). Concurrent claimers race on this statement; exactly one matches.
const QClaimDonation = `--sql c750e504-1064-4be6-baae-f35e69bf807d
update donations d
set ngo_id = $2::uuid,
    status = 'assigned',
    claimed_at = now(),
    updated_at = now()
where d.id = $1::uuid
  and d.status = 'pending'
  and (d.ngo_id is null or d.ngo_id = $2::uuid)
returning ` + donationColumns + `;
`

// QUpdateDonationStatus stamps collected_at/completed_at only on first reach;
// re-applying a status never overwrites an existing timestamp.
const QUpdateDonationStatus = `--sql cdc5ce31-53d2-4ef4-a148-88d2eb36449b
update donations d
set status = $3::text,
    collected_at = case when $3::text = 'collected' and d.collected_at is null then now() else d.collected_at end,
    completed_at = case when $3::text = 'delivered' and d.completed_at is null then now() else d.completed_at end,
    updated_at = now()
where d.id = $1::uuid
  and d.ngo_id = $2::uuid
returning ` + donationColumns + `;
`

const QListAvailableDonations = `--sql 0149efcf-bae5-4f43-bf79-98038624e682
select ` + donationColumns + `,
       dn.id, dn.name, dn.email, dn.phone, dn.address
from donations d
join donors dn on dn.id = d.donor_id
where d.status = 'pending'
order by d.created_at desc;
`

const QListDonationsByDonor = `--sql 22e4bde7-8eb5-4f06-9732-cfd352261d28
select ` + donationColumns + `,
       n.id, n.name, n.email, n.phone, n.address
from donations d
left join ngos n on n.id = d.ngo_id
where d.donor_id = $1::uuid
order by d.created_at desc;
`

const QListClaimedDonations = `--sql bf5c14c0-808d-4da5-81fc-450506aeba68
select ` + donationColumns + `,
       dn.id, dn.name, dn.email, dn.phone, dn.address
from donations d
join donors dn on dn.id = d.donor_id
where d.ngo_id = $1::uuid
  and d.status = any($2::text[])
order by d.claimed_at desc;
`
