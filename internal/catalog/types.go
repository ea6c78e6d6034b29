package catalog

type MuscleGroup string

const (
	MuscleGroupChest     MuscleGroup = "chest"
	MuscleGroupBack      MuscleGroup = "back"
	MuscleGroupShoulders MuscleGroup = "shoulders"
	MuscleGroupBiceps    MuscleGroup = "biceps"
	MuscleGroupTriceps   MuscleGroup = "triceps"
	MuscleGroupLegs      MuscleGroup = "legs"
	MuscleGroupCore      MuscleGroup = "core"
	MuscleGroupFullBody  MuscleGroup = "full_body"
	MuscleGroupCardio    MuscleGroup = "cardio"
)

func (mg MuscleGroup) IsValid() bool {
	switch mg {
	case MuscleGroupChest,
		MuscleGroupBack,
		MuscleGroupShoulders,
		MuscleGroupBiceps,
		MuscleGroupTriceps,
		MuscleGroupLegs,
		MuscleGroupCore,
		MuscleGroupFullBody,
		MuscleGroupCardio:
		return true
	default:
		return false
	}
}

type Category string

const (
	CategoryStrength    Category = "strength"
	CategoryCardio      Category = "cardio"
	CategoryFlexibility Category = "flexibility"
	CategoryHIIT        Category = "hiit"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryStrength, CategoryCardio, CategoryFlexibility, CategoryHIIT:
		return true
	default:
		return false
	}
}

type GenderFocus string

const (
	GenderFocusMale   GenderFocus = "male"
	GenderFocusFemale GenderFocus = "female"
	GenderFocusBoth   GenderFocus = "both"
)

func (g GenderFocus) IsValid() bool {
	switch g {
	case GenderFocusMale, GenderFocusFemale, GenderFocusBoth:
		return true
	default:
		return false
	}
}

type Equipment string

const (
	EquipmentNone            Equipment = "none"
	EquipmentDumbbells       Equipment = "dumbbells"
	EquipmentBarbell         Equipment = "barbell"
	EquipmentMachines        Equipment = "machines"
	EquipmentResistanceBands Equipment = "resistance_bands"
	EquipmentKettlebell      Equipment = "kettlebell"
)

func (e Equipment) IsValid() bool {
	switch e {
	case EquipmentNone,
		EquipmentDumbbells,
		EquipmentBarbell,
		EquipmentMachines,
		EquipmentResistanceBands,
		EquipmentKettlebell:
		return true
	default:
		return false
	}
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

type Goal string

const (
	GoalWeightLoss     Goal = "weight_loss"
	GoalMuscleGain     Goal = "muscle_gain"
	GoalGeneralFitness Goal = "general_fitness"
	GoalStrength       Goal = "strength"
	GoalEndurance      Goal = "endurance"
)

func (g Goal) IsValid() bool {
	switch g {
	case GoalWeightLoss, GoalMuscleGain, GoalGeneralFitness, GoalStrength, GoalEndurance:
		return true
	default:
		return false
	}
}
