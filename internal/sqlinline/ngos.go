package sqlinline

const QInsertNGO = `--sql 4f147a6b-deb1-4ef8-a45c-c5d588f7479c
insert into ngos (id, name, email, password_hash, phone, address, registration_number, is_verified, country, created_at, updated_at)
values (gen_random_uuid(), $1::text, lower($2::text), $3::text, $4::text, $5::text, $6::text, false, $7::text, now(), now())
returning id, name, email, password_hash, phone, address, registration_number, is_verified, country, created_at, updated_at;
`

const QSelectNGOByID = `--sql 05929397-7fa9-49ad-935c-b66317c46883
select id, name, email, password_hash, phone, address, registration_number, is_verified, country, created_at, updated_at
from ngos
where id = $1::uuid
limit 1;
`

const QSelectNGOByEmail = `--sql d5bbbe98-51fe-4a76-8862-d44062347d2e
select id, name, email, password_hash, phone, address, registration_number, is_verified, country, created_at, updated_at
from ngos
where email = lower($1::text)
limit 1;
`
