package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"ec2lister/internal/models"
)

// InstanceService handles interactions with AWS EC2 instances
type InstanceService struct {
	client EC2ClientAPI
}

// NewInstanceServiceWithDefaultConfig creates a new InstanceService with the
// default AWS SDK configuration. Credentials and the default region are read
// once here and reused for every request.
func NewInstanceServiceWithDefaultConfig(ctx context.Context) (*InstanceService, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return NewInstanceServiceWithClient(ec2.NewFromConfig(cfg)), nil
}

// NewInstanceServiceWithClient creates a new InstanceService with a provided client
func NewInstanceServiceWithClient(client EC2ClientAPI) *InstanceService {
	return &InstanceService{
		client: client,
	}
}

// ListInstances returns every EC2 instance visible in the given region as a
// flat record sequence, preserving the provider's return order. The region
// is targeted per call via the client options override, so a single shared
// client serves all regions.
func (s *InstanceService) ListInstances(ctx context.Context, region string) ([]models.InstanceRecord, error) {
	withRegion := func(o *ec2.Options) {
		o.Region = region
	}

	records := make([]models.InstanceRecord, 0)
	input := &ec2.DescribeInstancesInput{}
	for {
		resp, err := s.client.DescribeInstances(ctx, input, withRegion)
		if err != nil {
			return nil, ClassifyAWSError(err, "EC2", region)
		}

		records = append(records, flattenReservations(resp.Reservations)...)

		if resp.NextToken == nil {
			break
		}
		input.NextToken = resp.NextToken
	}

	return records, nil
}

// regionLookupRegion is where DescribeRegions calls are sent. The listing is
// global, so a fixed region keeps the check working when the SDK config
// chain carries no default region, and keeps the candidate name out of
// endpoint resolution.
const regionLookupRegion = "eu-west-1"

// ValidateRegion checks the region name against the provider's region
// listing. An unknown name yields an ErrInvalidRegion error, distinct from
// transport or credential failures while performing the check.
func (s *InstanceService) ValidateRegion(ctx context.Context, region string) error {
	resp, err := s.client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		AllRegions: aws.Bool(true),
	}, func(o *ec2.Options) {
		o.Region = regionLookupRegion
	})
	if err != nil {
		return ClassifyAWSError(err, "EC2", region)
	}

	for _, r := range resp.Regions {
		if aws.ToString(r.RegionName) == region {
			return nil
		}
	}

	return NewAWSError(ErrInvalidRegion, "EC2", region, "Invalid region name", nil)
}

// flattenReservations converts the nested reservation/instance structure into
// a flat record sequence, preserving the provider's order.
func flattenReservations(reservations []types.Reservation) []models.InstanceRecord {
	records := make([]models.InstanceRecord, 0)
	for _, reservation := range reservations {
		for _, instance := range reservation.Instances {
			records = append(records, flattenInstance(instance))
		}
	}
	return records
}

// flattenInstance maps one SDK instance onto the domain record. Optional
// fields that the instance lacks stay nil rather than failing the request.
func flattenInstance(instance types.Instance) models.InstanceRecord {
	record := models.InstanceRecord{
		ID:         aws.ToString(instance.InstanceId),
		Type:       string(instance.InstanceType),
		PrivateIPs: make([]string, 0),
		LaunchTime: instance.LaunchTime,
		PublicIP:   instance.PublicIpAddress,
	}

	if instance.State != nil {
		record.State = string(instance.State.Name)
	}
	if instance.Placement != nil {
		record.AvailabilityZone = aws.ToString(instance.Placement.AvailabilityZone)
	}
	if name, ok := nameTag(instance.Tags); ok {
		record.Name = &name
	}
	for _, eni := range instance.NetworkInterfaces {
		if eni.PrivateIpAddress != nil {
			record.PrivateIPs = append(record.PrivateIPs, aws.ToString(eni.PrivateIpAddress))
		}
	}

	return record
}

// nameTag extracts the Name tag value, if present.
func nameTag(tags []types.Tag) (string, bool) {
	for _, tag := range tags {
		if aws.ToString(tag.Key) == "Name" && tag.Value != nil {
			return aws.ToString(tag.Value), true
		}
	}
	return "", false
}
