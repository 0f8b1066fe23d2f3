package main

import "github.com/SmileAfterBurn/social-map-care/pkg/registry"

// seedOrganizations is a small built-in slice of the registry so the client
// can exercise filtering, export and referrals without a backend.
var seedOrganizations = []registry.Organization{
	{
		ID:       "org-001",
		Name:     "Центр \"Довіра\" Одеса",
		Address:  "м. Одеса, вул. Дерибасівська, 12",
		Lat:      46.4843,
		Lng:      30.7326,
		Category: "Психологічна підтримка",
		Services: "Кризове консультування, групи підтримки",
		Phone:    "+380 48 700 11 22",
		Email:    "dovira.odesa@example.org",
		Status:   registry.StatusActive,
		Budget:   1_250_000,
		Region:   "Odesa",
	},
	{
		ID:       "org-002",
		Name:     "Прихисток \"Маяк\"",
		Address:  "м. Миколаїв, просп. Центральний, 71",
		Lat:      46.9750,
		Lng:      31.9946,
		Category: "Тимчасове житло",
		Services: "Шелтер для ВПО, гуманітарна допомога",
		Phone:    "+380 51 240 33 44",
		Email:    "mayak@example.org",
		Status:   registry.StatusActive,
		Budget:   3_400_000,
		Region:   "Mykolaiv",
	},
	{
		ID:       "org-003",
		Name:     "Юридична клініка \"Право на захист\"",
		Address:  "м. Дніпро, вул. Січеславська Набережна, 29",
		Lat:      48.4647,
		Lng:      35.0462,
		Category: "Юридична допомога",
		Services: "Відновлення документів, консультації ВПО",
		Phone:    "+380 56 790 55 66",
		Email:    "pravo.dnipro@example.org",
		Status:   registry.StatusActive,
		Budget:   870_000,
		Region:   "Dnipro",
	},
	{
		ID:       "org-004",
		Name:     "Реабілітаційний центр \"Крок\"",
		Address:  "м. Львів, вул. Личаківська, 107",
		Lat:      49.8326,
		Lng:      24.0594,
		Category: "Медична реабілітація",
		Services: "Протезування, фізична терапія",
		Phone:    "+380 32 275 77 88",
		Email:    "krok.lviv@example.org",
		Status:   registry.StatusPending,
		Budget:   5_100_000,
		Region:   "Lviv",
	},
	{
		ID:       "org-005",
		Name:     "Гуманітарний штаб Херсонщини",
		Address:  "м. Херсон, вул. Ушакова, 16",
		Lat:      46.6354,
		Lng:      32.6169,
		Category: "Продукти та гігієна",
		Services: "Продуктові набори, питна вода, евакуація",
		Phone:    "+380 55 249 99 00",
		Email:    "shtab.kherson@example.org",
		Status:   registry.StatusActive,
		Budget:   2_050_000,
		Region:   "Kherson",
	},
	{
		ID:       "org-006",
		Name:     "Дитячий простір \"Сонях\"",
		Address:  "м. Запоріжжя, вул. Соборна, 48",
		Lat:      47.8388,
		Lng:      35.1396,
		Category: "Підтримка дітей",
		Services: "Арт-терапія, денний догляд",
		Phone:    "+380 61 222 10 20",
		Email:    "soniah@example.org",
		Status:   registry.StatusInDevelopment,
		Budget:   640_000,
		Region:   "Zaporizhzhia",
	},
}
