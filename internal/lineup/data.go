package lineup

import "forestfest/internal/model"

// 2025 lineup, one slice per stage. Times are festival-day clock times;
// 00:00-05:59 belongs to the night of the listed day.

func perf(name, image string, stage model.Stage, day model.Day, start, end string) model.Performance {
	return model.Performance{
		Name:  name,
		Image: image,
		Stage: stage,
		Day:   day,
		Start: model.MustTimeCode(start),
		End:   model.MustTimeCode(end),
	}
}

var forestStage = []model.Performance{
	// Friday Forest Stage
	perf("Something Happens", "something-happens", model.StageForest, model.Friday, "17:00", "18:00"),
	perf("Tom Meighan", "tom-meighan", model.StageForest, model.Friday, "18:40", "19:40"),
	perf("Franz Ferdinand", "franz-ferdinand", model.StageForest, model.Friday, "20:20", "21:50"),
	perf("The Dandy Warhols", "the-dandy-warhols", model.StageForest, model.Friday, "22:30", "23:30"),
	perf("Live Forever Oasis", "live-forever-oasis", model.StageForest, model.Friday, "00:00", "01:00"),
	// Saturday Forest Stage
	perf("Thumper", "thumper", model.StageForest, model.Saturday, "12:35", "13:35"),
	perf("Aoife Destruction and The Nilz", "aoife-destruction-and-the-nilz", model.StageForest, model.Saturday, "14:10", "14:50"),
	perf("Therapy?", "therapy", model.StageForest, model.Saturday, "15:20", "16:20"),
	perf("Peter Hook and The Light", "peter-hook-the-light", model.StageForest, model.Saturday, "17:00", "18:00"),
	perf("The Stranglers", "the-stranglers", model.StageForest, model.Saturday, "18:40", "19:40"),
	perf("Kula Shaker", "kula-shaker", model.StageForest, model.Saturday, "20:20", "21:20"),
	perf("Manic Street Preachers", "manic-street-preachers", model.StageForest, model.Saturday, "22:00", "23:30"),
	perf("Orbital", "orbital", model.StageForest, model.Saturday, "00:15", "01:45"),
	// Sunday Forest Stage
	perf("Rattle & Hum", "rattle-and-hum", model.StageForest, model.Sunday, "12:00", "13:00"),
	perf("Nick Lowe", "nick-lowe", model.StageForest, model.Sunday, "13:30", "14:30"),
	perf("Bad Manners", "bad-manners", model.StageForest, model.Sunday, "15:10", "16:10"),
	perf("Jack L", "jack-lukeman", model.StageForest, model.Sunday, "16:50", "17:50"),
	perf("Tony Hadley", "tony-hadley", model.StageForest, model.Sunday, "18:30", "19:50"),
	perf("Travis", "travis-band", model.StageForest, model.Sunday, "20:30", "22:00"),
	perf("Qween", "qween", model.StageForest, model.Sunday, "23:00", "00:00"),
}

var perfectDayStage = []model.Performance{
	// Friday Perfect Day Stage
	perf("The Jury", "the-jury", model.StagePerfectDay, model.Friday, "16:40", "17:25"),
	perf("Shark School", "shark-school", model.StagePerfectDay, model.Friday, "17:45", "18:30"),
	perf("The Jobseekers", "jobseekerz", model.StagePerfectDay, model.Friday, "18:50", "19:35"),
	perf("Intercom Heights", "intercom-heights", model.StagePerfectDay, model.Friday, "19:55", "20:40"),
	perf("Seattle Grunge Experience", "seattle-grunge-experience", model.StagePerfectDay, model.Friday, "21:00", "21:45"),
	perf("The Luna Boys", "the-luna-boys", model.StagePerfectDay, model.Friday, "22:05", "22:50"),
	perf("Risky Business", "risky-business", model.StagePerfectDay, model.Friday, "23:10", "23:55"),
	perf("The Deadlians", "the-deadlians", model.StagePerfectDay, model.Friday, "00:15", "01:00"),
	perf("Thin Az Lizzy", "thin-az-lizzy", model.StagePerfectDay, model.Friday, "01:15", "02:00"),
	// Saturday Perfect Day Stage
	perf("Houston Death Ray", "houston-death-ray", model.StagePerfectDay, model.Saturday, "12:20", "13:05"),
	perf("Southern Freud", "southern-freud", model.StagePerfectDay, model.Saturday, "13:25", "14:10"),
	perf("The Magic Mod", "the-magic-mod", model.StagePerfectDay, model.Saturday, "14:30", "15:00"),
	perf("Kiera Dignam", "kiera-dignam", model.StagePerfectDay, model.Saturday, "15:20", "16:05"),
	perf("Dopamine", "dopamine", model.StagePerfectDay, model.Saturday, "16:25", "17:05"),
	perf("Fake Friends", "fake-friends", model.StagePerfectDay, model.Saturday, "17:25", "18:05"),
	perf("The Classic Beatles", "the-classic-beatles", model.StagePerfectDay, model.Saturday, "18:25", "19:25"),
	perf("Apollo Junction", "apollo-junction", model.StagePerfectDay, model.Saturday, "19:45", "20:25"),
	perf("The Manatees", "the-manatees", model.StagePerfectDay, model.Saturday, "20:45", "21:30"),
	perf("Dutch Criminal Record", "dutch-criminal-record", model.StagePerfectDay, model.Saturday, "21:50", "22:35"),
	perf("Post-Party", "post-party", model.StagePerfectDay, model.Saturday, "22:55", "23:40"),
	perf("Walk the Line", "walk-the-line", model.StagePerfectDay, model.Saturday, "00:00", "01:30"),
	// Sunday Perfect Day Stage
	perf("MOA", "moa", model.StagePerfectDay, model.Sunday, "12:15", "12:45"),
	perf("Fizzy Orange", "fizzy-orange", model.StagePerfectDay, model.Sunday, "13:05", "13:45"),
	perf("thanks mom", "thanks-mom", model.StagePerfectDay, model.Sunday, "14:05", "14:45"),
	perf("Strength in Numbers", "strength-in-numbers", model.StagePerfectDay, model.Sunday, "15:05", "15:45"),
	perf("Basht.", "basht", model.StagePerfectDay, model.Sunday, "16:05", "16:45"),
	perf("Glasshouse Performs: The Velvet Underground", "glasshouse", model.StagePerfectDay, model.Sunday, "17:05", "17:50"),
	perf("The Youth Play", "the-youthplay", model.StagePerfectDay, model.Sunday, "18:10", "18:55"),
	perf("Motion Sickness", "motion-sickness", model.StagePerfectDay, model.Sunday, "19:15", "20:00"),
	perf("Pogueology", "pogueology", model.StagePerfectDay, model.Sunday, "20:20", "21:05"),
	perf("Grooveline", "grooveline", model.StagePerfectDay, model.Sunday, "21:25", "22:10"),
	perf("Sack", "sack", model.StagePerfectDay, model.Sunday, "22:30", "23:20"),
	perf("The Drive.", "the-drive", model.StagePerfectDay, model.Sunday, "23:40", "00:20"),
}

var villageStage = []model.Performance{
	// Friday Village Stage
	perf("The Valves", "the-valves", model.StageVillage, model.Friday, "16:00", "17:00"),
	perf("Harvest", "harvest", model.StageVillage, model.Friday, "17:30", "18:30"),
	perf("Cry Before Dawn", "cry-before-dawn", model.StageVillage, model.Friday, "19:00", "20:00"),
	perf("The 4 of Us", "the-4-of-us", model.StageVillage, model.Friday, "20:30", "21:30"),
	perf("The Farm", "the-farm", model.StageVillage, model.Friday, "22:00", "23:00"),
	perf("Alabama 3", "alabama-3", model.StageVillage, model.Friday, "23:30", "00:45"),
	perf("Daft Punk Tribute", "daft-punk-tribute", model.StageVillage, model.Friday, "01:00", "02:00"),
	// Saturday Village Stage
	perf("Dylan Flynn & The Dead Poets", "dylan-flynn-the-dead-poets", model.StageVillage, model.Saturday, "12:15", "13:00"),
	perf("The Coathanger Solution", "the-coathanger-solution", model.StageVillage, model.Saturday, "13:20", "14:05"),
	perf("These Charming Men", "these-charming-men", model.StageVillage, model.Saturday, "14:30", "15:30"),
	perf("Dirty Blonde", "dirty-blonde", model.StageVillage, model.Saturday, "16:00", "17:00"),
	perf("Coach Party", "coach-party", model.StageVillage, model.Saturday, "17:30", "18:30"),
	perf("Pillow Queens", "pillow-queens", model.StageVillage, model.Saturday, "19:00", "20:00"),
	perf("Kerbdog", "kerbdog", model.StageVillage, model.Saturday, "20:30", "21:30"),
	perf("Reef", "reef", model.StageVillage, model.Saturday, "22:00", "23:00"),
	perf("Teenage Fanclub", "teenage-fanclub", model.StageVillage, model.Saturday, "23:30", "00:40"),
	perf("The Riptide Movement", "the-riptide-movement", model.StageVillage, model.Saturday, "01:10", "02:00"),
	// Sunday Village Stage
	perf("Ryan Sheridan", "ryan-sheridan", model.StageVillage, model.Sunday, "12:15", "13:05"),
	perf("Paddy Casey", "paddy-casey", model.StageVillage, model.Sunday, "13:35", "14:25"),
	perf("Bingo Loco", "bingo-loco", model.StageVillage, model.Sunday, "14:55", "16:25"),
	perf("Andrew Strong", "andrew-strong", model.StageVillage, model.Sunday, "16:55", "17:45"),
	perf("Robert Finley", "robert-finley", model.StageVillage, model.Sunday, "18:15", "19:15"),
	perf("Hermitage Green", "hermitage-green", model.StageVillage, model.Sunday, "19:45", "20:45"),
	perf("Billy Bragg", "billy-bragg", model.StageVillage, model.Sunday, "21:15", "22:30"),
	perf("The Magic Numbers", "the-magic-number", model.StageVillage, model.Sunday, "23:00", "00:00"),
}

var forestFleadhStage = []model.Performance{
	// Friday Forest Fleadh Stage
	perf("Madra Salach", "madra-salach", model.StageForestFleadh, model.Friday, "16:20", "17:00"),
	perf("Meadhbh Hayes", "meadhbh-hayes", model.StageForestFleadh, model.Friday, "17:20", "18:00"),
	perf("Alltacht", "alltacht", model.StageForestFleadh, model.Friday, "18:20", "19:10"),
	perf("Cua", "cua", model.StageForestFleadh, model.Friday, "19:30", "20:20"),
	perf("Laura Jo", "laura-jo", model.StageForestFleadh, model.Friday, "20:40", "21:30"),
	perf("Moxie", "moxie", model.StageForestFleadh, model.Friday, "21:50", "22:40"),
	perf("Stocktons Wing", "stocktons-wing", model.StageForestFleadh, model.Friday, "23:00", "00:00"),
	// Saturday Forest Fleadh Stage
	perf("Music Generation Laois Trad Orchestra", "music-generation-laois-trad-orchestra", model.StageForestFleadh, model.Saturday, "12:00", "12:45"),
	perf("Chris Comhaill", "chris-comhaill", model.StageForestFleadh, model.Saturday, "13:15", "14:00"),
	perf("Cormac Looby", "cormac-looby", model.StageForestFleadh, model.Saturday, "14:15", "15:00"),
	perf("The Oars", "the-oars", model.StageForestFleadh, model.Saturday, "15:15", "16:00"),
	perf("Kevin Conneff Dublin Trio", "kevin-coneff-the-chieftains", model.StageForestFleadh, model.Saturday, "16:15", "17:00"),
	perf("Buille", "buille", model.StageForestFleadh, model.Saturday, "17:15", "18:00"),
	perf("Eric de Buitleir", "eric-de-buitleir", model.StageForestFleadh, model.Saturday, "18:15", "19:00"),
	perf("Mary Coughlan", "mary-coughlan", model.StageForestFleadh, model.Saturday, "19:30", "20:30"),
	perf("Sharon Shannon", "sharon-shannon", model.StageForestFleadh, model.Saturday, "21:00", "22:00"),
	perf("Beoga", "beoga", model.StageForestFleadh, model.Saturday, "22:30", "23:30"),
	perf("Kan", "kan", model.StageForestFleadh, model.Saturday, "00:00", "01:00"),
	// Sunday Forest Fleadh Stage
	perf("Set Dancing W Maureen Culleton & Irish Dancing from Scoil Rince Ni Anglais", "set-dancing", model.StageForestFleadh, model.Sunday, "12:00", "12:40"),
	perf("Eva Coyle and Band", "eva-coyle", model.StageForestFleadh, model.Sunday, "13:00", "14:00"),
	perf("Seán Lyons and Eva Carroll", "sean-lyons-and-eva-carroll", model.StageForestFleadh, model.Sunday, "14:30", "15:15"),
	perf("Frankie Gavin and De Dannan", "frankie-gavin-de-dannan", model.StageForestFleadh, model.Sunday, "15:45", "16:45"),
	perf("Buioch", "buioch-trad", model.StageForestFleadh, model.Sunday, "17:00", "17:45"),
	perf("Niall McCabe", "niall-mccabe", model.StageForestFleadh, model.Sunday, "18:00", "19:00"),
	perf("Freddie White", "freddie-white", model.StageForestFleadh, model.Sunday, "19:30", "20:30"),
	perf("Hunger of the Skin - Brian Finnegan", "brian-finnegan-with-the-hunger-of-the-skin-band", model.StageForestFleadh, model.Sunday, "21:00", "22:00"),
	perf("The Complete Stone Roses", "the-complete-stone-roses", model.StageForestFleadh, model.Sunday, "22:30", "23:30"),
}

var ibizaRewindStage = []model.Performance{
	// Friday Ibiza Rewind Tent
	perf("Danny Kay Ibiza, Lauren (Saxophone)", "danny-kay-ibiza", model.StageIbizaRewind, model.Friday, "16:00", "17:00"),
	perf("Alan Prosser", "alan-prosser", model.StageIbizaRewind, model.Friday, "17:00", "18:00"),
	perf("Gee Moore", "gee-moore", model.StageIbizaRewind, model.Friday, "18:00", "22:00"),
	perf("Terry Farley", "terry-farley", model.StageIbizaRewind, model.Friday, "20:00", "22:00"),
	perf("X-Press 2", "x-press-2", model.StageIbizaRewind, model.Friday, "22:00", "00:00"),
	perf("Gee Moore", "gee-moore", model.StageIbizaRewind, model.Friday, "00:00", "02:00"),
	// Saturday Ibiza Rewind Tent
	perf("Danny Kay Ibiza, David H (Percussion), Lauren (Saxophone)", "danny-kay-ibiza", model.StageIbizaRewind, model.Saturday, "12:00", "13:00"),
	perf("Nick Coles", "nick-coles", model.StageIbizaRewind, model.Saturday, "13:00", "14:00"),
	perf("Alan Prosser", "alan-prosser", model.StageIbizaRewind, model.Saturday, "14:00", "15:00"),
	perf("Gee Moore", "gee-moore", model.StageIbizaRewind, model.Saturday, "15:00", "17:00"),
	perf("Mr C", "mr-c", model.StageIbizaRewind, model.Saturday, "17:00", "19:00"),
	perf("Gee Moore", "gee-moore", model.StageIbizaRewind, model.Saturday, "19:00", "21:00"),
	perf("Jam El Mar", "jam-el-mar", model.StageIbizaRewind, model.Saturday, "21:00", "23:00"),
	perf("DJ Pippi", "dj-pippi", model.StageIbizaRewind, model.Saturday, "23:00", "01:00"),
	perf("Gee Moore", "gee-moore", model.StageIbizaRewind, model.Saturday, "01:00", "02:00"),
	// Sunday Ibiza Rewind Tent
	perf("Danny Kay Ibiza, David H (Percussion)", "danny-kay-ibiza", model.StageIbizaRewind, model.Sunday, "12:00", "13:00"),
	perf("Alan Prosser", "alan-prosser", model.StageIbizaRewind, model.Sunday, "13:00", "15:00"),
	perf("DJ Sean", "dj-sean", model.StageIbizaRewind, model.Sunday, "15:00", "15:40"),
	perf("Nick Coles", "nick-coles", model.StageIbizaRewind, model.Sunday, "15:40", "16:40"),
	perf("Lange and The Morrighan", "lange", model.StageIbizaRewind, model.Sunday, "16:40", "18:00"),
	perf("Gee Moore", "gee-moore", model.StageIbizaRewind, model.Sunday, "18:00", "19:00"),
	perf("Mr.C", "mr-c", model.StageIbizaRewind, model.Sunday, "19:00", "22:00"),
	perf("Gee Moore", "gee-moore", model.StageIbizaRewind, model.Sunday, "22:00", "00:00"),
}

var vipStage = []model.Performance{
	// Friday VIP Stage
	perf("Half The Truth", "half-the-truth", model.StageVIP, model.Friday, "00:00", "01:45"),
	// Saturday VIP Stage
	perf("The Legendary Drama Kings", "the-legendary-drama-kings", model.StageVIP, model.Saturday, "18:00", "18:45"),
	perf("The Magic Mod", "the-magic-mod", model.StageVIP, model.Saturday, "19:00", "19:30"),
	perf("Strength in Numbers", "strength-in-numbers", model.StageVIP, model.Saturday, "19:45", "20:00"),
	perf("The Valves", "the-valves", model.StageVIP, model.Saturday, "23:45", "01:00"),
	// Sunday VIP Stage
	perf("The Valves", "the-valves", model.StageVIP, model.Sunday, "19:00", "20:00"),
}
