package sqlinline

const QInsertDonor = `--sql 26f1f798-ce6b-402e-8e3d-c700509b41a0
insert into donors (id, name, email, password_hash, phone, address, role, country, created_at, updated_at)
values (gen_random_uuid(), $1::text, lower($2::text), $3::text, $4::text, $5::text, $6::text, $7::text, now(), now())
returning id, name, email, password_hash, phone, address, role, country, created_at, updated_at;
`

const QSelectDonorByID = `--sql dbd04e05-9f6b-423a-a7ed-7b4593d84c59
select id, name, email, password_hash, phone, address, role, country, created_at, updated_at
from donors
where id = $1::uuid
limit 1;
`

const QSelectDonorByEmail = `--sql 530681bb-2d11-41ae-8c56-177ece6a7813
select id, name, email, password_hash, phone, address, role, country, created_at, updated_at
from donors
where email = lower($1::text)
limit 1;
`
